package app

import (
	"context"
	"sync"
	"time"

	"github.com/Moowses/stay-engine/internal/domain"
)

// Loader debounces availability fetches against rapid input changes (date,
// guest count, pet toggles) and guarantees that only the most recent
// parameter set's response is ever applied. Each Request captures a
// generation; a response arriving after a newer request was issued checks its
// generation, finds it stale, and is discarded.
type Loader struct {
	svc     *Service
	delay   time.Duration
	onStart func()
	onDone  func(SearchResult, error)

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// NewLoader wires the callbacks: onStart fires synchronously on every Request
// (typically Selection.SetLoading(true)); onDone fires with the result of the
// winning request only.
func NewLoader(svc *Service, delay time.Duration, onStart func(), onDone func(SearchResult, error)) *Loader {
	return &Loader{svc: svc, delay: delay, onStart: onStart, onDone: onDone}
}

// Request schedules a fetch for q, superseding any pending or in-flight one.
func (l *Loader) Request(ctx context.Context, q domain.AvailabilityQuery) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.delay, func() { l.run(ctx, gen, q) })
	l.mu.Unlock()

	if l.onStart != nil {
		l.onStart()
	}
}

func (l *Loader) run(ctx context.Context, gen uint64, q domain.AvailabilityQuery) {
	if l.stale(gen) {
		return
	}
	res, err := l.svc.Search(ctx, q)
	if l.stale(gen) {
		return // superseded while in flight
	}
	if l.onDone != nil {
		l.onDone(res, err)
	}
}

func (l *Loader) stale(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen != l.gen
}
