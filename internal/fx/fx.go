package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mushxhid/Accounting-sub000/internal/logger"
)

const cacheTTL = 5 * time.Minute

// FallbackRate is used whenever the provider is unreachable so entry forms
// keep working offline. Provider failures are non-fatal by design.
var FallbackRate = decimal.NewFromInt(280)

type providerResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Service caches the PKR-per-USD rate for cacheTTL. When Redis is configured
// the fetched rate is mirrored there so multiple instances share one fetch;
// a nil client simply disables the mirror.
type Service struct {
	ProviderURL  string
	BaseCurrency string
	HTTPClient   *http.Client
	Redis        *redis.Client

	mu        sync.Mutex
	rate      decimal.Decimal
	fetchedAt time.Time
	fallback  bool
}

func NewService(providerURL, baseCurrency string, rdb *redis.Client) *Service {
	return &Service{
		ProviderURL:  providerURL,
		BaseCurrency: baseCurrency,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
		Redis:        rdb,
	}
}

// Rate returns the cached rate, refetching when the cache is stale or empty.
func (s *Service) Rate(ctx context.Context) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < cacheTTL {
		return s.rate
	}
	return s.refreshLocked(ctx)
}

// Refresh forces a refetch regardless of cache age.
func (s *Service) Refresh(ctx context.Context) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

// Snapshot reports the cached state without triggering a fetch.
func (s *Service) Snapshot() (rate decimal.Decimal, fetchedAt time.Time, fallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate, s.fetchedAt, s.fallback
}

func (s *Service) refreshLocked(ctx context.Context) decimal.Decimal {
	rate, err := s.fetch(ctx)
	if err != nil {
		logger.Log.WithError(err).Warn("fx provider unavailable, using fallback rate")
		// Cache the fallback too so repeated failures don't hammer the network.
		s.rate = FallbackRate
		s.fetchedAt = time.Now()
		s.fallback = true
		return s.rate
	}

	s.rate = rate
	s.fetchedAt = time.Now()
	s.fallback = false

	if s.Redis != nil {
		if err := s.Redis.Set(ctx, s.redisKey(), rate.String(), cacheTTL).Err(); err != nil {
			logger.Log.WithError(err).Debug("failed to mirror fx rate to redis")
		}
	}
	return s.rate
}

func (s *Service) fetch(ctx context.Context) (decimal.Decimal, error) {
	// A fresh mirror from another instance saves a provider round trip.
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, s.redisKey()).Result(); err == nil {
			if rate, err := decimal.NewFromString(raw); err == nil && rate.Sign() > 0 {
				return rate, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ProviderURL, nil)
	if err != nil {
		return decimal.Zero, err
	}

	res, err := s.HTTPClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return decimal.Zero, fmt.Errorf("fx provider status %d: %s", res.StatusCode, body)
	}

	var parsed providerResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return decimal.Zero, err
	}

	raw, ok := parsed.Rates[s.BaseCurrency]
	if !ok || raw <= 0 {
		return decimal.Zero, fmt.Errorf("fx provider has no usable %s rate", s.BaseCurrency)
	}
	return decimal.NewFromFloat(raw), nil
}

func (s *Service) redisKey() string {
	return "fx:rate:" + s.BaseCurrency
}
