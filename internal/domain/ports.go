package domain

import (
	"context"
	"time"
)

// PMSClient reaches the upstream property-management system. The payload comes
// back untyped because the upstream answers in several shapes (row array,
// compact object, nested envelopes, or a bare sentinel string); shape
// detection is the normalizer's job, not the transport's.
type PMSClient interface {
	FetchAvailability(ctx context.Context, q AvailabilityQuery) (any, error)
}

// SessionStore holds calendar selection snapshots between requests. Not a
// response cache: an availability record lives inside a session only for that
// session's lifetime and is rebuilt from upstream on every new query.
type SessionStore interface {
	Get(ctx context.Context, id string, dst any) (bool, error)
	Set(ctx context.Context, id string, v any, ttl time.Duration) error
	Del(ctx context.Context, id string) error
}

// UpstreamEvent is one audit row about an upstream miss or empty outcome.
type UpstreamEvent struct {
	PropertyID string
	RoomTypeID string
	Status     int
	Reason     string
}

// TelemetrySink records upstream events for operators. Best-effort; callers
// ignore its errors.
type TelemetrySink interface {
	RecordUpstreamEvent(ctx context.Context, ev UpstreamEvent) error
}
