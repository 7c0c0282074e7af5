package memory

import (
	"context"
	"testing"
	"time"

	"github.com/parley-ai/parley-backend/internal/domain"
)

func TestGetUnknownSessionIsNotAnError(t *testing.T) {
	store := NewSessionStore()

	sess, err := store.Get(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session for unknown id, got %+v", sess)
	}
}

func TestPutThenGet(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	now := time.Now()
	in := &domain.Session{
		ID:                    "s1",
		LastContinuationToken: "tok-1",
		TurnCount:             1,
		CreatedAt:             now,
		LastTurnAt:            now,
	}

	if err := store.Put(ctx, in); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	out, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out == nil || out.LastContinuationToken != "tok-1" || out.TurnCount != 1 {
		t.Fatalf("unexpected session: %+v", out)
	}
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if err := store.Put(ctx, &domain.Session{ID: "s1", TurnCount: 1}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	first, _ := store.Get(ctx, "s1")
	first.TurnCount = 99

	second, _ := store.Get(ctx, "s1")
	if second.TurnCount != 1 {
		t.Fatalf("store record mutated through a Get result: %+v", second)
	}
}

func TestPutUpserts(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	_ = store.Put(ctx, &domain.Session{ID: "s1", TurnCount: 1, LastContinuationToken: "tok-1"})
	_ = store.Put(ctx, &domain.Session{ID: "s1", TurnCount: 2, LastContinuationToken: "tok-2"})

	out, _ := store.Get(ctx, "s1")
	if out.TurnCount != 2 || out.LastContinuationToken != "tok-2" {
		t.Fatalf("upsert did not replace record: %+v", out)
	}
}

func TestListRecentOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	base := time.Now()
	for i, id := range []domain.SessionID{"old", "mid", "new"} {
		_ = store.Put(ctx, &domain.Session{
			ID:         id,
			LastTurnAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	sessions, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "new" || sessions[1].ID != "mid" {
		t.Fatalf("unexpected order: %q, %q", sessions[0].ID, sessions[1].ID)
	}
}
