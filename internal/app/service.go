package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Moowses/stay-engine/internal/domain"
)

// fanOutLimit bounds concurrent follow-up requests when expanding a room-type
// index response.
const fanOutLimit = 8

// Service owns the fetch → normalize pipeline and quote building.
type Service struct {
	pms             domain.PMSClient
	telemetry       domain.TelemetrySink
	defaultCurrency string
}

func NewService(pms domain.PMSClient, sink domain.TelemetrySink, defaultCurrency string) *Service {
	if sink == nil {
		sink = NoopTelemetry{}
	}
	return &Service{pms: pms, telemetry: sink, defaultCurrency: defaultCurrency}
}

// SearchResult is either surviving rooms or a legitimately empty outcome with
// its reason code. Reason is set only when Rooms is empty.
type SearchResult struct {
	Rooms  []domain.RoomAvailabilityRecord
	Reason domain.Reason
}

// Search queries the upstream for one parameter set and reconciles whatever
// shape comes back into canonical records. An empty result is a result, never
// an error; errors mean the upstream failed or spoke gibberish.
func (s *Service) Search(ctx context.Context, q domain.AvailabilityQuery) (SearchResult, error) {
	if q.Currency == "" {
		q.Currency = s.defaultCurrency
	}
	if err := q.Window().Validate(); err != nil {
		return SearchResult{}, err
	}

	payload, err := s.pms.FetchAvailability(ctx, q)
	if err != nil {
		s.recordMiss(ctx, q, err)
		return SearchResult{}, err
	}

	rooms, reason, err := s.normalize(ctx, q, payload)
	if err != nil {
		s.recordMiss(ctx, q, err)
		return SearchResult{}, err
	}
	if len(rooms) == 0 {
		if reason == "" {
			reason = domain.ReasonNoRooms
		}
		_ = s.telemetry.RecordUpstreamEvent(ctx, domain.UpstreamEvent{
			PropertyID: q.PropertyID, RoomTypeID: q.RoomTypeID,
			Status: http.StatusOK, Reason: string(reason),
		})
		return SearchResult{Reason: reason}, nil
	}
	return SearchResult{Rooms: rooms}, nil
}

func (s *Service) normalize(ctx context.Context, q domain.AvailabilityQuery, payload any) ([]domain.RoomAvailabilityRecord, domain.Reason, error) {
	p := detectShape(payload)
	switch p.shape {
	case shapeSentinel:
		return nil, sentinelReason(p.sentinel), nil

	case shapeRows:
		rooms := make([]domain.RoomAvailabilityRecord, 0, len(p.rows))
		for _, row := range p.rows {
			rec := mapRow(row, q)
			// placeholder rows: no id, or nothing priced over the window
			if rec.RoomTypeID == "" || !rowTotal(&rec, q).IsPositive() {
				continue
			}
			rooms = append(rooms, rec)
		}
		return rooms, "", nil

	case shapeCompactRoom:
		rec := mapRow(p.compact, q)
		if rec.RoomTypeID == "" && q.RoomTypeID != "" {
			rec.RoomTypeID = q.RoomTypeID
		}
		if rec.RoomTypeID == "" || !rowTotal(&rec, q).IsPositive() || !allQueriedNightsAvailable(&rec, q) {
			return nil, "", nil
		}
		return []domain.RoomAvailabilityRecord{rec}, "", nil

	case shapeRoomTypeIndex:
		if q.RoomTypeID != "" {
			// a scoped request answered with another index cannot be expanded
			return nil, "", domain.ErrMalformedUpstream
		}
		return s.fanOut(ctx, q, p.roomTypes)

	default:
		return nil, "", domain.ErrMalformedUpstream
	}
}

// fanOut expands a room-type index by issuing one scoped follow-up request
// per listed room type, concurrently, and waiting for the whole batch. A room
// type whose follow-up errors is dropped from the results rather than failing
// the query.
func (s *Service) fanOut(ctx context.Context, q domain.AvailabilityQuery, roomTypes []string) ([]domain.RoomAvailabilityRecord, domain.Reason, error) {
	results := make([][]domain.RoomAvailabilityRecord, len(roomTypes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, id := range roomTypes {
		i, id := i, id
		g.Go(func() error {
			sub := q
			sub.RoomTypeID = id
			payload, err := s.pms.FetchAvailability(gctx, sub)
			if err != nil {
				log.Warn().Str("property", q.PropertyID).Str("roomType", id).Err(err).Msg("room type fan-out failed, dropping")
				s.recordMiss(gctx, sub, err)
				return nil
			}
			rooms, _, err := s.normalize(gctx, sub, payload)
			if err != nil {
				log.Warn().Str("property", q.PropertyID).Str("roomType", id).Err(err).Msg("room type payload unusable, dropping")
				return nil
			}
			results[i] = rooms
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	var rooms []domain.RoomAvailabilityRecord
	for _, rs := range results {
		rooms = append(rooms, rs...)
	}
	return rooms, "", nil
}

// QuoteRequest is the quote endpoint's input.
type QuoteRequest struct {
	PropertyID string `json:"propertyId"`
	RoomTypeID string `json:"roomTypeId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
	Infants    int    `json:"infants"`
	Pet        bool   `json:"pet"`
	Currency   string `json:"currency,omitempty"`
}

// QuoteResult carries the finalized quote. Available false means booking must
// not proceed regardless of the totals present.
type QuoteResult struct {
	Available bool          `json:"available"`
	Quote     *domain.Quote `json:"quote,omitempty"`
	Reason    domain.Reason `json:"reason,omitempty"`
}

// QuoteRoom prices a candidate range for one room type. The range is
// validated before any network call; stay-rule and gap failures after the
// fetch are local rejections, not upstream errors.
func (s *Service) QuoteRoom(ctx context.Context, req QuoteRequest) (QuoteResult, error) {
	r := domain.DateRange{CheckIn: req.CheckIn, CheckOut: req.CheckOut}
	if err := r.Validate(); err != nil {
		return QuoteResult{}, err
	}

	res, err := s.Search(ctx, domain.AvailabilityQuery{
		PropertyID: req.PropertyID,
		RoomTypeID: req.RoomTypeID,
		StartDate:  req.CheckIn,
		EndDate:    req.CheckOut,
		Adults:     req.Adults,
		Children:   req.Children,
		Infants:    req.Infants,
		Pet:        req.Pet,
		Currency:   req.Currency,
	})
	if err != nil {
		return QuoteResult{}, err
	}
	rec := pickRoom(res.Rooms, req.RoomTypeID)
	if rec == nil {
		reason := res.Reason
		if reason == "" {
			reason = domain.ReasonNoRooms
		}
		return QuoteResult{Available: false, Reason: reason}, nil
	}

	rules := ResolveStayRules(rec, r.CheckIn)
	if n := r.Nights(); n < rules.MinStay || n > rules.MaxStay {
		return QuoteResult{}, &domain.StayRuleViolationError{Nights: n, MinStay: rules.MinStay, MaxStay: rules.MaxStay}
	}

	quote, available, err := BuildQuote(rec, r, req.Pet)
	if err != nil {
		if errors.Is(err, domain.ErrNoUsablePrices) {
			return QuoteResult{Available: false, Reason: domain.ReasonNoRooms}, nil
		}
		return QuoteResult{}, err
	}
	out := QuoteResult{Available: available, Quote: &quote}
	if !available {
		out.Reason = domain.ReasonGap
	}
	return out, nil
}

// pickRoom prefers the exact room type; with no scoping it takes the first
// surviving room.
func pickRoom(rooms []domain.RoomAvailabilityRecord, roomTypeID string) *domain.RoomAvailabilityRecord {
	for i := range rooms {
		if roomTypeID == "" || rooms[i].RoomTypeID == roomTypeID {
			return &rooms[i]
		}
	}
	return nil
}

func (s *Service) recordMiss(ctx context.Context, q domain.AvailabilityQuery, err error) {
	status := 0
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		status = ue.Status
	}
	_ = s.telemetry.RecordUpstreamEvent(ctx, domain.UpstreamEvent{
		PropertyID: q.PropertyID, RoomTypeID: q.RoomTypeID,
		Status: status, Reason: err.Error(),
	})
}

// NoopTelemetry swallows events when no sink is configured.
type NoopTelemetry struct{}

func (NoopTelemetry) RecordUpstreamEvent(context.Context, domain.UpstreamEvent) error { return nil }
