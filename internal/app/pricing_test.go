package app_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Moowses/stay-engine/internal/app"
	"github.com/Moowses/stay-engine/internal/domain"
)

func julyRecord() *domain.RoomAvailabilityRecord {
	return &domain.RoomAvailabilityRecord{
		RoomTypeID:   "deluxe",
		CurrencyCode: "USD",
		DailyPrices: map[string]decimal.Decimal{
			"2025-07-01": decimal.NewFromInt(100),
			"2025-07-02": decimal.NewFromInt(120),
		},
		Availability: map[string]bool{
			"2025-07-01": true,
			"2025-07-02": true,
		},
		PetFee:      decimal.NewFromInt(30),
		CleaningFee: decimal.NewFromInt(45),
		VAT:         decimal.NewFromInt(22),
	}
}

func rng(in, out string) domain.DateRange { return domain.DateRange{CheckIn: in, CheckOut: out} }

func TestAggregateRange_SumsNightlyPrices(t *testing.T) {
	agg, err := app.AggregateRange(julyRecord(), rng("2025-07-01", "2025-07-03"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !agg.RoomSubtotal.Equal(decimal.NewFromInt(220)) {
		t.Fatalf("subtotal = %s, want 220", agg.RoomSubtotal)
	}
	if !agg.AllNightsAvailable {
		t.Fatal("expected all nights available")
	}
}

func TestAggregateRange_OneUnavailableNightFailsRange(t *testing.T) {
	m := julyRecord()
	m.Availability["2025-07-02"] = false

	agg, err := app.AggregateRange(m, rng("2025-07-01", "2025-07-03"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if agg.AllNightsAvailable {
		t.Fatal("range with an unavailable night must not be fully available")
	}
	// subtotal still sums; availability is the gate, not the price
	if !agg.RoomSubtotal.Equal(decimal.NewFromInt(220)) {
		t.Fatalf("subtotal = %s, want 220", agg.RoomSubtotal)
	}
}

func TestAggregateRange_MissingEntries(t *testing.T) {
	m := julyRecord()
	m.Availability["2025-07-03"] = true // priced nights only up to 07-02

	// missing price contributes 0
	agg, err := app.AggregateRange(m, rng("2025-07-02", "2025-07-04"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !agg.RoomSubtotal.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("subtotal = %s, want 120", agg.RoomSubtotal)
	}
	if !agg.AllNightsAvailable {
		t.Fatal("both nights are marked available")
	}

	// missing availability entry fails closed
	agg, err = app.AggregateRange(m, rng("2025-07-02", "2025-07-05"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if agg.AllNightsAvailable {
		t.Fatal("night without an availability entry must count as unavailable")
	}
}

func TestAggregateRange_Rejections(t *testing.T) {
	if _, err := app.AggregateRange(julyRecord(), rng("2025-07-01", "2025-07-01")); !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("zero-night range: got %v", err)
	}
	empty := &domain.RoomAvailabilityRecord{RoomTypeID: "x", Availability: map[string]bool{"2025-07-01": true}}
	if _, err := app.AggregateRange(empty, rng("2025-07-01", "2025-07-02")); !errors.Is(err, domain.ErrNoUsablePrices) {
		t.Fatalf("record without prices: got %v", err)
	}
}

func TestBuildQuote_Totals(t *testing.T) {
	m := julyRecord()

	q, available, err := app.BuildQuote(m, rng("2025-07-01", "2025-07-03"), true)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !available {
		t.Fatal("expected available quote")
	}
	if q.Nights != 2 || q.Currency != "USD" {
		t.Fatalf("quote meta: %+v", q)
	}
	wantTotal := decimal.NewFromInt(220 + 30 + 45 + 22)
	if !q.GrandTotal.Equal(wantTotal) {
		t.Fatalf("grand total = %s, want %s", q.GrandTotal, wantTotal)
	}
	if !q.GrandTotal.Equal(q.RoomSubtotal.Add(q.PetFee).Add(q.CleaningFee).Add(q.VAT)) {
		t.Fatal("grand total must be the exact sum of its lines")
	}

	// pet fee only applies when the option is selected
	q, _, err = app.BuildQuote(m, rng("2025-07-01", "2025-07-03"), false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !q.PetFee.IsZero() {
		t.Fatalf("pet fee = %s without pet option", q.PetFee)
	}
}

func TestBuildQuote_UnavailableNightBlocksBooking(t *testing.T) {
	m := julyRecord()
	m.Availability["2025-07-02"] = false

	q, available, err := app.BuildQuote(m, rng("2025-07-01", "2025-07-03"), false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if available {
		t.Fatal("quote over a gap must not be bookable")
	}
	if q.GrandTotal.IsZero() {
		t.Fatal("totals still computed for display")
	}
}

func TestBuildQuote_ZeroSubtotalNotAvailable(t *testing.T) {
	m := julyRecord()
	m.DailyPrices["2025-07-01"] = decimal.Zero
	m.DailyPrices["2025-07-02"] = decimal.Zero

	_, available, err := app.BuildQuote(m, rng("2025-07-01", "2025-07-03"), false)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if available {
		t.Fatal("zero-subtotal quote must not be bookable")
	}
}
