package store

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func Test_Store_AppendAndRecent(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Append(ctx, "sess-1", Turn{Query: "clients over 60", Message: "Applied 1 filter(s)", AppliedFilters: 1}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	turns, err := s.Recent(ctx, "sess-1", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}
	if turns[0].Query != "clients over 60" || turns[0].AppliedFilters != 1 {
		t.Errorf("unexpected turn: %+v", turns[0])
	}
}

func Test_Store_RecentLimitRespected(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.Append(ctx, "sess-1", Turn{Query: "q", Message: "m"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	turns, err := s.Recent(ctx, "sess-1", 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(turns) != 3 {
		t.Errorf("got %d turns, want 3", len(turns))
	}
}

func Test_Store_SessionIsolation(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Append(ctx, "sess-a", Turn{Query: "a", Message: "m"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(ctx, "sess-b", Turn{Query: "b", Message: "m"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	turns, err := s.Recent(ctx, "sess-a", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(turns) != 1 || turns[0].Query != "a" {
		t.Errorf("session isolation broken: %+v", turns)
	}
}

func Test_Store_EmptySessionReturnsNil(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	turns, err := s.Recent(context.Background(), "missing", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if turns != nil {
		t.Errorf("expected nil for empty session, got %+v", turns)
	}
}

func Test_Store_OldestFirstOrdering(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	queries := []string{"first", "second", "third"}
	for _, q := range queries {
		if err := s.Append(ctx, "sess-1", Turn{Query: q, Message: "m"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	turns, err := s.Recent(ctx, "sess-1", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("got %d turns", len(turns))
	}
	for i, q := range queries {
		if turns[i].Query != q {
			t.Errorf("turn %d = %q, want %q", i, turns[i].Query, q)
		}
	}
}
