package app

import "github.com/Moowses/stay-engine/internal/domain"

// Stay-length bounds used when the record carries neither a per-date override
// nor a property-wide default.
const (
	FallbackMinStay = 1
	FallbackMaxStay = 365
)

// ResolveStayRules resolves the effective min/max stay for one candidate
// check-in date: per-date override, then the property default, then the
// engine fallback. Pure; safe to call on every candidate-checkout tap.
func ResolveStayRules(m *domain.RoomAvailabilityRecord, checkIn string) domain.StayRules {
	rules := domain.StayRules{MinStay: FallbackMinStay, MaxStay: FallbackMaxStay}
	if m == nil {
		return rules
	}
	if m.DefaultMinStay != nil {
		rules.MinStay = *m.DefaultMinStay
	}
	if m.DefaultMaxStay != nil {
		rules.MaxStay = *m.DefaultMaxStay
	}
	if n, ok := m.MinStayByDate[checkIn]; ok {
		rules.MinStay = n
	}
	if n, ok := m.MaxStayByDate[checkIn]; ok {
		rules.MaxStay = n
	}
	return rules
}
