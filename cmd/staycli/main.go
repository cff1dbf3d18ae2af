package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Moowses/stay-engine/internal/domain"
)

// staycli is a thin terminal client for the stay-engine API: check a window,
// price a range. Useful for poking a deployment without a frontend.

var (
	apiBase    string
	outputJSON bool
)

func main() {
	root := &cobra.Command{
		Use:          "staycli",
		Short:        "Query stay-engine availability and quotes",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", envOr("STAY_API", "http://localhost:8080"), "stay-engine base URL")
	root.PersistentFlags().BoolVar(&outputJSON, "json", false, "print raw JSON")
	root.AddCommand(availabilityCmd())
	root.AddCommand(quoteCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func availabilityCmd() *cobra.Command {
	var property, start, end, currency string
	var adults int
	var pet bool

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Show per-room nightly availability for a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if property == "" || start == "" || end == "" {
				return fmt.Errorf("--property, --start and --end are required")
			}
			v := url.Values{}
			v.Set("propertyId", property)
			v.Set("startDate", start)
			v.Set("endDate", end)
			v.Set("adults", fmt.Sprint(adults))
			if pet {
				v.Set("pet", "1")
			}
			if currency != "" {
				v.Set("currency", currency)
			}

			var resp struct {
				Success bool                            `json:"success"`
				Rooms   []domain.RoomAvailabilityRecord `json:"rooms"`
				Reason  string                          `json:"reason"`
			}
			raw, err := getJSON(apiBase+"/v1/availability?"+v.Encode(), &resp)
			if err != nil {
				return err
			}
			if outputJSON {
				fmt.Println(string(raw))
				return nil
			}
			if len(resp.Rooms) == 0 {
				fmt.Printf("no rooms (%s)\n", resp.Reason)
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROOM\tNIGHT\tPRICE\tAVAILABLE")
			for _, room := range resp.Rooms {
				nights := make([]string, 0, len(room.DailyPrices))
				for d := range room.DailyPrices {
					nights = append(nights, d)
				}
				sort.Strings(nights)
				for _, d := range nights {
					fmt.Fprintf(tw, "%s\t%s\t%s %s\t%v\n",
						room.RoomTypeID, d, room.DailyPrices[d], room.CurrencyCode, room.Availability[d])
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&property, "property", "", "property id")
	cmd.Flags().StringVar(&start, "start", "", "window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "window end, exclusive (YYYY-MM-DD)")
	cmd.Flags().IntVar(&adults, "adults", 2, "adult count")
	cmd.Flags().BoolVar(&pet, "pet", false, "travelling with a pet")
	cmd.Flags().StringVar(&currency, "currency", "", "requested currency code")
	return cmd
}

func quoteCmd() *cobra.Command {
	var property, room, checkIn, checkOut, currency string
	var adults int
	var pet bool

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a [check-in, check-out) range for one room type",
		RunE: func(cmd *cobra.Command, args []string) error {
			if property == "" || room == "" || checkIn == "" || checkOut == "" {
				return fmt.Errorf("--property, --room, --check-in and --check-out are required")
			}
			body, _ := json.Marshal(map[string]any{
				"propertyId": property,
				"roomTypeId": room,
				"checkIn":    checkIn,
				"checkOut":   checkOut,
				"adults":     adults,
				"pet":        pet,
				"currency":   currency,
			})

			var resp struct {
				Available bool          `json:"available"`
				Quote     *domain.Quote `json:"quote"`
				Reason    string        `json:"reason"`
			}
			raw, err := postJSON(apiBase+"/v1/quote", body, &resp)
			if err != nil {
				return err
			}
			if outputJSON {
				fmt.Println(string(raw))
				return nil
			}
			if !resp.Available {
				fmt.Printf("not bookable (%s)\n", resp.Reason)
				return nil
			}
			q := resp.Quote
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "nights\t%d\n", q.Nights)
			fmt.Fprintf(tw, "room subtotal\t%s %s\n", q.RoomSubtotal, q.Currency)
			fmt.Fprintf(tw, "pet fee\t%s %s\n", q.PetFee, q.Currency)
			fmt.Fprintf(tw, "cleaning fee\t%s %s\n", q.CleaningFee, q.Currency)
			fmt.Fprintf(tw, "vat\t%s %s\n", q.VAT, q.Currency)
			fmt.Fprintf(tw, "grand total\t%s %s\n", q.GrandTotal, q.Currency)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&property, "property", "", "property id")
	cmd.Flags().StringVar(&room, "room", "", "room type id")
	cmd.Flags().StringVar(&checkIn, "check-in", "", "check-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "check-out date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&adults, "adults", 2, "adult count")
	cmd.Flags().BoolVar(&pet, "pet", false, "travelling with a pet")
	cmd.Flags().StringVar(&currency, "currency", "", "requested currency code")
	return cmd
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func getJSON(url string, dst any) ([]byte, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	return readJSON(resp, dst)
}

func postJSON(url string, body []byte, dst any) ([]byte, error) {
	resp, err := httpClient.Post(url, "application/json", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	return readJSON(resp, dst)
}

func readJSON(resp *http.Response, dst any) ([]byte, error) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, json.Unmarshal(raw, dst)
}
