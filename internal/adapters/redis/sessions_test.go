package redisad

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type sessionBlob struct {
	Phase string `json:"phase"`
	Start string `json:"candidateStart"`
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(mr.Addr(), "", 0), mr
}

func TestStore_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	in := sessionBlob{Phase: "start_picked", Start: "2025-07-01"}
	if err := s.Set(ctx, "abc", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out sessionBlob
	found, err := s.Get(ctx, "abc", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || out != in {
		t.Fatalf("got %+v (found=%v), want %+v", out, found, in)
	}
}

func TestStore_MissIsNotAnError(t *testing.T) {
	s, _ := newTestStore(t)

	var out sessionBlob
	found, err := s.Get(context.Background(), "nope", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("unknown id must report not-found")
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "abc", sessionBlob{Phase: "committed"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var out sessionBlob
	found, err := s.Get(ctx, "abc", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("session must expire with its TTL")
	}
}

func TestStore_Del(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "abc", sessionBlob{Phase: "committed"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Del(ctx, "abc"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var out sessionBlob
	if found, _ := s.Get(ctx, "abc", &out); found {
		t.Fatal("deleted session must be gone")
	}
}
