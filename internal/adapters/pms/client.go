package pms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Moowses/stay-engine/internal/adapters/observability"
	"github.com/Moowses/stay-engine/internal/domain"
)

// Client talks to the upstream PMS availability endpoint. It rate-limits
// itself client-side and maps transport outcomes onto the engine's error
// taxonomy. It deliberately performs no retries: a failed call surfaces as
// "unavailable" and retry stays with the user re-triggering a query.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("PMS base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// FetchAvailability issues the availability GET for one parameter set and
// decodes the body into an untyped payload. The decode target is `any` on
// purpose: the upstream answers with an array of rows, a compact object, a
// {data: ...} envelope, or a bare sentinel string, and shape detection belongs
// to the normalizer.
func (c *Client) FetchAvailability(ctx context.Context, q domain.AvailabilityQuery) (any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.availabilityURL(q), nil)
	if err != nil {
		return nil, err
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "stay-engine/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		observability.ObserveUpstream("pms", "availability", 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveUpstream("pms", "availability", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &domain.UpstreamError{Status: resp.StatusCode}
	}

	var payload any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedUpstream, err)
	}
	return payload, nil
}

func (c *Client) availabilityURL(q domain.AvailabilityQuery) string {
	v := url.Values{}
	v.Set("hotelId", q.PropertyID)
	v.Set("startDate", q.StartDate)
	v.Set("endDate", q.EndDate)
	v.Set("adult", strconv.Itoa(q.Adults))
	v.Set("child", strconv.Itoa(q.Children))
	v.Set("infant", strconv.Itoa(q.Infants))
	v.Set("pet", boolParam(q.Pet))
	if q.Currency != "" {
		v.Set("currency", q.Currency)
	}
	if q.RoomTypeID != "" {
		v.Set("roomTypeId", q.RoomTypeID)
	}
	return c.base + "/availability?" + v.Encode()
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
