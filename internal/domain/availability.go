package domain

import "github.com/shopspring/decimal"

// RoomAvailabilityRecord is the canonical per-room view of one queried window:
// nightly prices and availability keyed by canonical day strings, plus the
// stay-rule overrides and secondary fees the upstream reported. Records are
// built fresh for every distinct query and never merged across queries.
type RoomAvailabilityRecord struct {
	RoomTypeID     string                     `json:"roomTypeId"`
	RoomTypeName   string                     `json:"roomTypeName,omitempty"`
	CurrencyCode   string                     `json:"currencyCode"`
	DailyPrices    map[string]decimal.Decimal `json:"dailyPrices"`
	Availability   map[string]bool            `json:"availability"`
	MinStayByDate  map[string]int             `json:"minStayByDate,omitempty"`
	MaxStayByDate  map[string]int             `json:"maxStayByDate,omitempty"`
	DefaultMinStay *int                       `json:"defaultMinStay,omitempty"`
	DefaultMaxStay *int                       `json:"defaultMaxStay,omitempty"`
	PetFee         decimal.Decimal            `json:"petFeeAmount"`
	CleaningFee    decimal.Decimal            `json:"cleaningFeeAmount"`
	VAT            decimal.Decimal            `json:"vatAmount"`
}

// NightAvailable is fail-closed: a night the upstream never mentioned is not
// bookable.
func (m *RoomAvailabilityRecord) NightAvailable(day string) bool {
	return m != nil && m.Availability[day]
}

// NightPrice returns the nightly price, with a missing entry contributing
// zero. A pricing gap is surfaced through the availability check instead.
func (m *RoomAvailabilityRecord) NightPrice(day string) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	if p, ok := m.DailyPrices[day]; ok {
		return p
	}
	return decimal.Zero
}

// DateRange is the half-open night interval [CheckIn, CheckOut).
type DateRange struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

func (r DateRange) Nights() int { return NightsBetween(r.CheckIn, r.CheckOut) }

func (r DateRange) Days() []string { return DaysIn(r.CheckIn, r.CheckOut) }

// Validate rejects malformed keys and zero-night ranges before anything
// downstream enumerates or hits the network.
func (r DateRange) Validate() error {
	if !IsDay(r.CheckIn) || !IsDay(r.CheckOut) || r.Nights() < 1 {
		return ErrInvalidDateRange
	}
	return nil
}

// StayRules is the effective min/max stay length for one candidate check-in.
type StayRules struct {
	MinStay int `json:"minStay"`
	MaxStay int `json:"maxStay"`
}

// Quote is a finalized priced range. GrandTotal is exactly the sum of the four
// lines; no rounding beyond the currency's own precision happens here.
type Quote struct {
	RoomSubtotal decimal.Decimal `json:"roomSubtotal"`
	PetFee       decimal.Decimal `json:"petFee"`
	CleaningFee  decimal.Decimal `json:"cleaningFee"`
	VAT          decimal.Decimal `json:"vat"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	Nights       int             `json:"nights"`
	Currency     string          `json:"currency"`
}

// AvailabilityQuery is the full parameter set of one upstream lookup. Any
// field changing means a fresh query and fresh records.
type AvailabilityQuery struct {
	PropertyID string `json:"propertyId"`
	RoomTypeID string `json:"roomTypeId,omitempty"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
	Infants    int    `json:"infants"`
	Pet        bool   `json:"pet"`
	Currency   string `json:"currency"`
}

// Window is the half-open night range the query covers.
func (q AvailabilityQuery) Window() DateRange {
	return DateRange{CheckIn: q.StartDate, CheckOut: q.EndDate}
}

// Reason is the machine-readable code attached to a legitimately empty result.
type Reason string

const (
	ReasonNoRooms        Reason = "no-rooms"
	ReasonNoAreaCoverage Reason = "no-area-coverage"
	ReasonGap            Reason = "gap-in-availability"
)
