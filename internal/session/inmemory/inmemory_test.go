package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/mkowalik/carscout/internal/assist"
)

func TestGetUnknownSessionIsNotAnError(t *testing.T) {
	s := NewStore()
	_, found, err := s.GetSession(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("unknown session must report found=false")
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := NewStore()
	st := assist.State{Step: assist.StepBudget, Answers: map[string]string{"usage": "city"}}
	if err := s.SaveSession(context.Background(), "abc", st, time.Minute); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	got, found, err := s.GetSession(context.Background(), "abc")
	if err != nil || !found {
		t.Fatalf("GetSession: found=%v err=%v", found, err)
	}
	if got.Step != assist.StepBudget || got.Answers["usage"] != "city" {
		t.Fatalf("unexpected state: %+v", got)
	}
}

func TestExpiredSessionsAreEvicted(t *testing.T) {
	now := time.Now()
	s := &Store{sessions: map[string]entry{}, now: func() time.Time { return now }}

	if err := s.SaveSession(context.Background(), "old", assist.State{Step: assist.StepUsage}, time.Minute); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, found, _ := s.GetSession(context.Background(), "old"); found {
		t.Fatal("expired session must not be returned")
	}

	// the write path sweeps too
	if err := s.SaveSession(context.Background(), "fresh", assist.State{}, time.Minute); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	s.mu.RLock()
	_, stillThere := s.sessions["old"]
	s.mu.RUnlock()
	if stillThere {
		t.Fatal("expired entry must be swept on write")
	}
}
