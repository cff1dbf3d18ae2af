package app

import (
	"github.com/shopspring/decimal"

	"github.com/Moowses/stay-engine/internal/domain"
)

// RangeTotal is the aggregator's verdict over one candidate night range.
type RangeTotal struct {
	RoomSubtotal       decimal.Decimal
	AllNightsAvailable bool
}

// AggregateRange walks every night of [checkIn, checkOut) against the record.
// Missing price entries contribute 0; a missing availability entry fails the
// whole range (fail-closed). Zero-night ranges are rejected before
// enumeration, and a record with no price data at all is an aggregation error
// rather than a silent zero quote.
func AggregateRange(m *domain.RoomAvailabilityRecord, r domain.DateRange) (RangeTotal, error) {
	if err := r.Validate(); err != nil {
		return RangeTotal{}, err
	}
	if m == nil || len(m.DailyPrices) == 0 {
		return RangeTotal{}, domain.ErrNoUsablePrices
	}

	out := RangeTotal{RoomSubtotal: decimal.Zero, AllNightsAvailable: true}
	for _, d := range r.Days() {
		out.RoomSubtotal = out.RoomSubtotal.Add(m.NightPrice(d))
		if !m.NightAvailable(d) {
			out.AllNightsAvailable = false
		}
	}
	return out, nil
}

// BuildQuote finalizes the latest aggregation into the displayed totals. The
// pet fee applies only when the pet option is selected. The returned available
// flag gates the booking flow: downstream consumers must refuse to proceed
// when it is false regardless of the total shown.
func BuildQuote(m *domain.RoomAvailabilityRecord, r domain.DateRange, pet bool) (domain.Quote, bool, error) {
	agg, err := AggregateRange(m, r)
	if err != nil {
		return domain.Quote{}, false, err
	}

	q := domain.Quote{
		RoomSubtotal: agg.RoomSubtotal,
		PetFee:       decimal.Zero,
		CleaningFee:  m.CleaningFee,
		VAT:          m.VAT,
		Nights:       r.Nights(),
		Currency:     m.CurrencyCode,
	}
	if pet {
		q.PetFee = m.PetFee
	}
	q.GrandTotal = q.RoomSubtotal.Add(q.PetFee).Add(q.CleaningFee).Add(q.VAT)

	available := agg.AllNightsAvailable && agg.RoomSubtotal.IsPositive()
	return q, available, nil
}
