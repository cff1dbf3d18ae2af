package app_test

import (
	"testing"

	"github.com/Moowses/stay-engine/internal/app"
	"github.com/Moowses/stay-engine/internal/domain"
)

func intp(n int) *int { return &n }

func TestResolveStayRules_FallbackChain(t *testing.T) {
	m := &domain.RoomAvailabilityRecord{
		MinStayByDate:  map[string]int{"2025-07-01": 3},
		MaxStayByDate:  map[string]int{"2025-07-01": 10},
		DefaultMinStay: intp(2),
		DefaultMaxStay: intp(14),
	}

	// per-date override wins
	r := app.ResolveStayRules(m, "2025-07-01")
	if r.MinStay != 3 || r.MaxStay != 10 {
		t.Fatalf("override: %+v", r)
	}

	// property default for dates without overrides
	r = app.ResolveStayRules(m, "2025-07-05")
	if r.MinStay != 2 || r.MaxStay != 14 {
		t.Fatalf("default: %+v", r)
	}

	// engine fallback when the record carries nothing
	r = app.ResolveStayRules(&domain.RoomAvailabilityRecord{}, "2025-07-05")
	if r.MinStay != 1 || r.MaxStay != 365 {
		t.Fatalf("fallback: %+v", r)
	}

	// nil record still resolves (selection may ask before data loads)
	r = app.ResolveStayRules(nil, "2025-07-05")
	if r.MinStay != 1 || r.MaxStay != 365 {
		t.Fatalf("nil record: %+v", r)
	}
}

func TestResolveStayRules_Idempotent(t *testing.T) {
	m := &domain.RoomAvailabilityRecord{
		MinStayByDate:  map[string]int{"2025-07-01": 3},
		DefaultMaxStay: intp(21),
	}
	first := app.ResolveStayRules(m, "2025-07-01")
	second := app.ResolveStayRules(m, "2025-07-01")
	if first != second {
		t.Fatalf("resolver is not idempotent: %+v vs %+v", first, second)
	}
}
