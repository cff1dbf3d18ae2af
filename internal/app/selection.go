package app

import (
	"github.com/Moowses/stay-engine/internal/domain"
)

// SelectionPhase names the state the calendar control is in.
type SelectionPhase string

const (
	PhaseNoSelection SelectionPhase = "no_selection"
	PhaseStartPicked SelectionPhase = "start_picked"
	PhaseRangePicked SelectionPhase = "range_picked"
	PhaseCommitted   SelectionPhase = "committed"
)

// Selection is the calendar selection state machine. It is the single writer
// of its own state; callers mutate it only through Tap/Apply/Reset and the
// loading/record setters. It never commits a range that is not fully
// available and stay-rule valid at commit time.
type Selection struct {
	rec       *domain.RoomAvailabilityRecord
	loading   bool
	start     string // candidate check-in, "" when none
	end       string // candidate check-out, "" when none
	rules     domain.StayRules
	committed *domain.DateRange
	priorLost bool
}

// SelectionSnapshot is the externally visible (and storable) state.
type SelectionSnapshot struct {
	Phase              SelectionPhase    `json:"phase"`
	CandidateStart     string            `json:"candidateStart,omitempty"`
	CandidateEnd       string            `json:"candidateEnd,omitempty"`
	ActiveMinStay      *int              `json:"activeMinStay,omitempty"`
	ActiveMaxStay      *int              `json:"activeMaxStay,omitempty"`
	CommittedRange     *domain.DateRange `json:"committedRange,omitempty"`
	PriorSelectionLost bool              `json:"priorSelectionLost,omitempty"`
	Loading            bool              `json:"loading,omitempty"`
}

func NewSelection(rec *domain.RoomAvailabilityRecord) *Selection {
	return &Selection{rec: rec}
}

// FromSnapshot rebuilds a machine around a stored snapshot. Used by the
// session layer, which persists snapshots between requests.
func FromSnapshot(rec *domain.RoomAvailabilityRecord, snap SelectionSnapshot) *Selection {
	s := &Selection{
		rec:       rec,
		loading:   snap.Loading,
		start:     snap.CandidateStart,
		end:       snap.CandidateEnd,
		priorLost: snap.PriorSelectionLost,
	}
	if snap.CommittedRange != nil {
		r := *snap.CommittedRange
		s.committed = &r
	}
	if s.start != "" {
		s.rules = ResolveStayRules(rec, s.start)
	}
	return s
}

// Restore validates an externally supplied range (arriving from a prior step
// of the flow) exactly as a user-picked one. An invalid or partly unavailable
// range leaves the machine at NoSelection with the prior-selection-lost signal
// raised instead of silently committing stale dates.
func (s *Selection) Restore(r domain.DateRange) {
	if err := r.Validate(); err != nil {
		s.priorLost = true
		return
	}
	agg, err := AggregateRange(s.rec, r)
	rules := ResolveStayRules(s.rec, r.CheckIn)
	n := r.Nights()
	if err != nil || !agg.AllNightsAvailable || n < rules.MinStay || n > rules.MaxStay {
		s.priorLost = true
		return
	}
	s.committed = &r
	s.rules = rules
	s.priorLost = false
}

// PriorSelectionLost reports whether a restored range had to be discarded.
func (s *Selection) PriorSelectionLost() bool { return s.priorLost }

// SetLoading flips the refresh guard. While loading, every day reads as
// hard-unavailable so a stale calendar can't take a booking tap mid-refresh.
func (s *Selection) SetLoading(loading bool) { s.loading = loading }

// ReplaceRecord swaps in freshly fetched availability and clears the loading
// guard. Candidates survive; Apply re-validates them against the new data.
func (s *Selection) ReplaceRecord(rec *domain.RoomAvailabilityRecord) {
	s.rec = rec
	s.loading = false
}

// IsHardUnavailable reports whether a day can never be tapped: the upstream
// marked the night unavailable (or never mentioned it), or the window is
// still loading.
func (s *Selection) IsHardUnavailable(day string) bool {
	if s.loading || s.rec == nil {
		return true
	}
	return !s.rec.NightAvailable(day)
}

// IsCheckoutBlockedByRules reports whether day fails as a checkout candidate
// for the current start under the stay rules: night count outside
// [minStay, maxStay], or a gap among the nights strictly between start and
// day. Distinct from IsHardUnavailable on purpose; the two render differently
// and are tested independently.
func (s *Selection) IsCheckoutBlockedByRules(day string) bool {
	if s.start == "" {
		return false
	}
	n := domain.NightsBetween(s.start, day)
	if n < s.rules.MinStay || n > s.rules.MaxStay {
		return true
	}
	for _, d := range domain.DaysIn(s.start, day) {
		if d == s.start {
			continue
		}
		if !s.rec.NightAvailable(d) {
			return true // no-gap invariant
		}
	}
	return false
}

// Tap advances the machine for a tapped calendar day. Taps that would land on
// a hard-unavailable day or a rules-blocked checkout are ignored; the state
// never moves onto an uncommittable candidate.
func (s *Selection) Tap(day string) {
	if !domain.IsDay(day) || s.loading {
		return
	}

	if s.start != "" && s.end == "" { // StartPicked
		switch {
		case day == s.start:
			// double tap: select the single following night
			s.tryCheckout(domain.NextDay(s.start))
		case day < s.start:
			// earlier tap swaps roles: new start, old start becomes the
			// checkout candidate if the rules allow it
			if s.IsHardUnavailable(day) {
				return
			}
			prior := s.start
			s.pickStart(day)
			s.tryCheckout(prior)
		default:
			s.tryCheckout(day)
		}
		return
	}

	// NoSelection, RangePicked, Committed: pick a fresh start
	if s.IsHardUnavailable(day) {
		return
	}
	s.pickStart(day)
}

func (s *Selection) pickStart(day string) {
	s.start = day
	s.end = ""
	s.rules = ResolveStayRules(s.rec, day)
}

func (s *Selection) tryCheckout(day string) {
	if day == "" || s.IsHardUnavailable(day) || s.IsCheckoutBlockedByRules(day) {
		return
	}
	s.end = day
}

// CanApply reports whether both a start and a rules-valid end are picked.
func (s *Selection) CanApply() bool { return s.start != "" && s.end != "" }

// Apply re-runs the full validation one last time and commits. The re-check
// exists because the availability window may have been refreshed between
// candidate selection and confirmation; candidates picked against the old
// data must not commit against the new.
func (s *Selection) Apply() (domain.DateRange, error) {
	if s.loading || !s.CanApply() {
		return domain.DateRange{}, domain.ErrInvalidDateRange
	}
	r := domain.DateRange{CheckIn: s.start, CheckOut: s.end}
	agg, err := AggregateRange(s.rec, r)
	if err != nil {
		return domain.DateRange{}, err
	}
	if !agg.AllNightsAvailable {
		return domain.DateRange{}, domain.ErrGapInAvailability
	}
	rules := ResolveStayRules(s.rec, r.CheckIn)
	if n := r.Nights(); n < rules.MinStay || n > rules.MaxStay {
		return domain.DateRange{}, &domain.StayRuleViolationError{Nights: n, MinStay: rules.MinStay, MaxStay: rules.MaxStay}
	}
	s.committed = &r
	s.start, s.end = "", ""
	return r, nil
}

// Reset returns to NoSelection from any state.
func (s *Selection) Reset() {
	s.start, s.end = "", ""
	s.committed = nil
	s.priorLost = false
}

// Committed returns the committed range, nil when none.
func (s *Selection) Committed() *domain.DateRange {
	if s.committed == nil {
		return nil
	}
	r := *s.committed
	return &r
}

func (s *Selection) Phase() SelectionPhase {
	switch {
	case s.start == "" && s.committed != nil:
		return PhaseCommitted
	case s.start == "":
		return PhaseNoSelection
	case s.end == "":
		return PhaseStartPicked
	default:
		return PhaseRangePicked
	}
}

func (s *Selection) Snapshot() SelectionSnapshot {
	snap := SelectionSnapshot{
		Phase:              s.Phase(),
		CandidateStart:     s.start,
		CandidateEnd:       s.end,
		CommittedRange:     s.Committed(),
		PriorSelectionLost: s.priorLost,
		Loading:            s.loading,
	}
	if s.start != "" {
		minStay, maxStay := s.rules.MinStay, s.rules.MaxStay
		snap.ActiveMinStay, snap.ActiveMaxStay = &minStay, &maxStay
	}
	return snap
}
