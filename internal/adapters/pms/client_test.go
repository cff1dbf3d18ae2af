package pms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Moowses/stay-engine/internal/domain"
)

func testQuery() domain.AvailabilityQuery {
	return domain.AvailabilityQuery{
		PropertyID: "H100",
		RoomTypeID: "deluxe",
		StartDate:  "2025-07-01",
		EndDate:    "2025-07-03",
		Adults:     2,
		Pet:        true,
		Currency:   "USD",
	}
}

func TestFetchAvailability_DecodesAndForwardsParams(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"dailyPrices": {"2025-07-01": 99.5}, "availability": {"2025-07-01": true}}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "secret", 100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	payload, err := c.FetchAvailability(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotPath != "/availability" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("api key header = %q", gotKey)
	}
	want := map[string]string{
		"hotelId": "H100", "roomTypeId": "deluxe",
		"startDate": "2025-07-01", "endDate": "2025-07-03",
		"adult": "2", "child": "0", "infant": "0", "pet": "1",
		"currency": "USD",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("param %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	// numbers decode as json.Number, never float64
	env := payload.(map[string]any)["data"].(map[string]any)
	price := env["dailyPrices"].(map[string]any)["2025-07-01"]
	if _, ok := price.(json.Number); !ok {
		t.Fatalf("price decoded as %T, want json.Number", price)
	}
}

func TestFetchAvailability_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream having a bad day", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, "", 100)
	_, err := c.FetchAvailability(context.Background(), testQuery())
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.Status != http.StatusBadGateway {
		t.Fatalf("err = %v", err)
	}
}

func TestFetchAvailability_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, "", 100)
	_, err := c.FetchAvailability(context.Background(), testQuery())
	if !errors.Is(err, domain.ErrMalformedUpstream) {
		t.Fatalf("err = %v", err)
	}
}

func TestFetchAvailability_SentinelStringPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"No available rooms"`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, "", 100)
	payload, err := c.FetchAvailability(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("a sentinel body is a valid response: %v", err)
	}
	if s, ok := payload.(string); !ok || s != "No available rooms" {
		t.Fatalf("payload = %#v", payload)
	}
}

func TestFetchAvailability_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c, _ := New(srv.URL, "", 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.FetchAvailability(ctx, testQuery()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := New("", "key", 5); err == nil {
		t.Fatal("empty base must be rejected")
	}
}
