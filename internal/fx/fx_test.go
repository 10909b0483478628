package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRate_CachesWithinTTL(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"rates":{"PKR":278.5}}`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, "PKR", nil)
	ctx := context.Background()

	first := s.Rate(ctx)
	if !first.Equal(decimal.NewFromFloat(278.5)) {
		t.Fatalf("rate = %s, want 278.5", first)
	}
	s.Rate(ctx)
	s.Rate(ctx)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("provider called %d times within TTL, want 1", got)
	}
}

func TestRate_RefetchesAfterTTL(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"rates":{"PKR":280}}`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, "PKR", nil)
	ctx := context.Background()

	s.Rate(ctx)
	s.mu.Lock()
	s.fetchedAt = time.Now().Add(-cacheTTL - time.Second)
	s.mu.Unlock()
	s.Rate(ctx)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("provider called %d times across an expired TTL, want 2", got)
	}
}

func TestRate_FallbackOnProviderFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewService(srv.URL, "PKR", nil)
	ctx := context.Background()

	rate := s.Rate(ctx)
	if !rate.Equal(FallbackRate) {
		t.Fatalf("rate = %s, want fallback %s", rate, FallbackRate)
	}

	_, _, fallback := s.Snapshot()
	if !fallback {
		t.Error("snapshot should report fallback in use")
	}

	// The fallback is cached; repeated reads must not hammer the provider.
	s.Rate(ctx)
	s.Rate(ctx)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("provider called %d times after cached fallback, want 1", got)
	}
}

func TestRefresh_ForcesFetch(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"rates":{"PKR":279}}`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, "PKR", nil)
	ctx := context.Background()

	s.Rate(ctx)
	s.Refresh(ctx)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("provider called %d times after explicit refresh, want 2", got)
	}
}

func TestFetch_MissingBaseCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"EUR":0.9}}`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, "PKR", nil)
	if _, err := s.fetch(context.Background()); err == nil {
		t.Error("fetch with missing base currency should fail")
	}
}
