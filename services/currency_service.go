package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"travel-server/store"
	"travel-server/utils/logger"
)

const rateCacheTTL = time.Hour

// CurrencyService fetches exchange rates from an upstream JSON API and caches
// them in the key-value store under rate:{from}:{to} for an hour.
type CurrencyService struct {
	kv      store.KV
	client  *http.Client
	baseURL string
}

func NewCurrencyService(kv store.KV, baseURL string) *CurrencyService {
	return &CurrencyService{
		kv:      kv,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

func rateKey(from, to string) string { return "rate:" + from + ":" + to }

// Rate returns the from->to exchange rate. Upstream failures fail soft: they
// are logged and reported as ok=false rather than surfaced as errors.
func (s *CurrencyService) Rate(ctx context.Context, from, to string) (float64, bool) {
	if cached, err := s.kv.Get(ctx, rateKey(from, to)); err == nil {
		if rate, err := strconv.ParseFloat(cached, 64); err == nil {
			return rate, true
		}
	}

	rate, err := s.fetchRate(ctx, from, to)
	if err != nil {
		logger.Error("Exchange rate fetch failed", "from", from, "to", to, "error", err)
		return 0, false
	}

	if err := s.kv.Set(ctx, rateKey(from, to), strconv.FormatFloat(rate, 'f', -1, 64), rateCacheTTL); err != nil {
		logger.Warn("Failed to cache exchange rate", "from", from, "to", to, "error", err)
	}
	return rate, true
}

// Convert applies the current rate to the amount, rounded to 2 decimals.
// The bool mirrors Rate's fail-soft contract.
func (s *CurrencyService) Convert(ctx context.Context, from, to string, amount float64) (float64, float64, bool) {
	rate, ok := s.Rate(ctx, from, to)
	if !ok {
		return 0, 0, false
	}
	return rate, round2(rate * amount), true
}

func (s *CurrencyService) fetchRate(ctx context.Context, from, to string) (float64, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, from)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}
	rate, ok := payload.Rates[to]
	if !ok {
		return 0, fmt.Errorf("no rate for %s in upstream response", to)
	}
	return rate, nil
}
