package cache

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeClock is a manually advanced clock shared by a test and its store.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return New(zerolog.Nop(), clock.now), clock
}

func TestGetSetAndExpiry(t *testing.T) {
	s, clock := newTestStore()

	s.Set("wallets", []string{"cash"}, time.Minute)

	v, ok := s.Get("wallets")
	if !ok {
		t.Fatal("expected hit for fresh entry")
	}
	if got := v.([]string); len(got) != 1 || got[0] != "cash" {
		t.Fatalf("Get = %v, want [cash]", got)
	}

	clock.advance(time.Minute + time.Second)
	if _, ok := s.Get("wallets"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if s.Len() != 0 {
		t.Fatalf("expired entry not evicted, Len = %d", s.Len())
	}
}

func TestSetResetsTimestamp(t *testing.T) {
	s, clock := newTestStore()

	s.Set("k", 1, time.Minute)
	clock.advance(50 * time.Second)
	s.Set("k", 2, time.Minute)
	clock.advance(50 * time.Second)

	v, ok := s.Get("k")
	if !ok {
		t.Fatal("expected hit; Set should have reset the timestamp")
	}
	if v.(int) != 2 {
		t.Fatalf("Get = %v, want 2", v)
	}
}

func TestInvalidatePattern(t *testing.T) {
	s, _ := newTestStore()

	s.Set("budgets", 1, time.Minute)
	s.Set(`budgets:{"active":true}`, 2, time.Minute)
	s.Set("budgetsummary", 3, time.Minute)
	s.Set("transactions", 4, time.Minute)

	removed := s.Invalidate("budgets")
	if removed != 2 {
		t.Fatalf("Invalidate removed %d entries, want 2", removed)
	}
	if _, ok := s.Get("budgetsummary"); !ok {
		t.Fatal("prefix match must require the ':' separator")
	}
	if _, ok := s.Get("transactions"); !ok {
		t.Fatal("unrelated key removed")
	}
}

func TestInvalidateRegexp(t *testing.T) {
	s, _ := newTestStore()

	s.Set("transactions", 1, time.Minute)
	s.Set(`transactions:{"wallet_id":"w1"}`, 2, time.Minute)
	s.Set("budgets", 3, time.Minute)

	removed := s.InvalidateRegexp(regexp.MustCompile(`^transactions`))
	if removed != 2 {
		t.Fatalf("InvalidateRegexp removed %d entries, want 2", removed)
	}
	if _, ok := s.Get("budgets"); !ok {
		t.Fatal("non-matching key removed")
	}
}

func TestFetchWithRefreshFreshNoRefetch(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	v1, err := s.FetchWithRefresh(ctx, "k", fetch, time.Minute, 30*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	clock.advance(10 * time.Second)
	v2, err := s.FetchWithRefresh(ctx, "k", fetch, time.Minute, 30*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Fatalf("fetch ran %d times, want 1 (second call inside stale threshold)", calls)
	}
	if v1.(int) != 1 || v2.(int) != 1 {
		t.Fatalf("values = %v, %v, want 1, 1", v1, v2)
	}
}

func TestFetchWithRefreshStaleServesOldAndRefreshes(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	done := make(chan error, 1)
	s.refreshDone = func(_ string, err error) { done <- err }

	if _, err := s.FetchWithRefresh(ctx, "k", fetch, time.Minute, 30*time.Second); err != nil {
		t.Fatal(err)
	}

	clock.advance(45 * time.Second) // stale but within TTL
	v, err := s.FetchWithRefresh(ctx, "k", fetch, time.Minute, 30*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if v.(int) != 1 {
		t.Fatalf("stale call returned %v, want the cached 1", v)
	}

	if err := <-done; err != nil {
		t.Fatalf("background refresh error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("fetch ran %d times, want 2", calls)
	}

	v, ok := s.Get("k")
	if !ok || v.(int) != 2 {
		t.Fatalf("cache after refresh = %v (hit=%v), want 2", v, ok)
	}
}

func TestFetchWithRefreshBackgroundErrorSwallowed(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("network down")
		}
		return "cached", nil
	}

	done := make(chan error, 1)
	s.refreshDone = func(_ string, err error) { done <- err }

	if _, err := s.FetchWithRefresh(ctx, "k", fetch, time.Minute, 30*time.Second); err != nil {
		t.Fatal(err)
	}

	clock.advance(45 * time.Second)
	v, err := s.FetchWithRefresh(ctx, "k", fetch, time.Minute, 30*time.Second)
	if err != nil {
		t.Fatalf("stale read must not surface the refresh failure, got %v", err)
	}
	if v.(string) != "cached" {
		t.Fatalf("stale read = %v, want cached", v)
	}

	if err := <-done; err == nil {
		t.Fatal("expected background refresh to fail")
	}
	// The stale entry survives the failed refresh.
	if v, ok := s.Get("k"); !ok || v.(string) != "cached" {
		t.Fatalf("stale entry lost after failed refresh: %v (hit=%v)", v, ok)
	}
}

func TestFetchWithRefreshExpiredFetchesSynchronously(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	if _, err := s.FetchWithRefresh(ctx, "k", fetch, time.Minute, 30*time.Second); err != nil {
		t.Fatal(err)
	}

	clock.advance(2 * time.Minute)
	v, err := s.FetchWithRefresh(ctx, "k", fetch, time.Minute, 30*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if v.(int) != 2 || calls != 2 {
		t.Fatalf("expired call = %v (calls=%d), want fresh value 2", v, calls)
	}
}

func TestFetchWithRefreshSynchronousErrorPropagates(t *testing.T) {
	s, _ := newTestStore()

	wantErr := errors.New("boom")
	_, err := s.FetchWithRefresh(context.Background(), "missing", func(context.Context) (any, error) {
		return nil, wantErr
	}, time.Minute, 30*time.Second)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestTypedAccessors(t *testing.T) {
	s, _ := newTestStore()

	s.Set("n", 42, time.Minute)

	if v, ok := Get[int](s, "n"); !ok || v != 42 {
		t.Fatalf("Get[int] = %d (hit=%v), want 42", v, ok)
	}
	if _, ok := Get[string](s, "n"); ok {
		t.Fatal("Get[string] over an int entry must miss")
	}

	v, err := FetchWithRefresh(context.Background(), s, "list", func(context.Context) ([]string, error) {
		return []string{"a"}, nil
	}, time.Minute, 30*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 1 || v[0] != "a" {
		t.Fatalf("typed FetchWithRefresh = %v, want [a]", v)
	}
}
