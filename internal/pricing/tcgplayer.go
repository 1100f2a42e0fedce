// Package pricing fetches market prices from the public TCGPlayer mpapi
// pricepoints endpoint.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const (
	tcgPlayerBaseURL = "https://mpapi.tcgplayer.com/v2"
	defaultTimeout   = 10 * time.Second

	// fetchCacheSize bounds the per-run dedup cache. Eviction only causes a
	// refetch of the same id, never an incorrect price.
	fetchCacheSize = 4096
)

// PricePoint is one priced listing variant from the pricepoints payload.
// MarketPrice is nullable upstream.
type PricePoint struct {
	PrintingType string   `json:"printingType"`
	MarketPrice  *float64 `json:"marketPrice"`
}

// TCGPlayerService fetches product prices from mpapi. Calls are sequential,
// gated through a politeness rate limiter, and deduplicated within a run so
// an id referenced by several owners is fetched exactly once.
type TCGPlayerService struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	cache   *lru.Cache[string, *float64]
}

// NewTCGPlayerService creates a new mpapi pricing service.
func NewTCGPlayerService() *TCGPlayerService {
	cache, _ := lru.New[string, *float64](fetchCacheSize)
	return &TCGPlayerService{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: tcgPlayerBaseURL,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		cache:   cache,
	}
}

// BeginRun clears the dedup cache so a new run fetches fresh prices.
func (s *TCGPlayerService) BeginRun() {
	s.cache.Purge()
}

// FetchPrice returns the market price for a product, or nil when no usable
// price exists. Transport, status, and decode failures are returned as errors
// alongside the nil price; the caller degrades them to "absent" for the item.
// The outcome (including absence) is cached for the rest of the run.
func (s *TCGPlayerService) FetchPrice(ctx context.Context, productID string) (*float64, error) {
	if price, ok := s.cache.Get(productID); ok {
		return price, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	points, err := s.fetchPricePoints(ctx, productID)
	if err != nil {
		s.cache.Add(productID, nil)
		return nil, err
	}

	price := SelectMarketPrice(points)
	s.cache.Add(productID, price)
	return price, nil
}

func (s *TCGPlayerService) fetchPricePoints(ctx context.Context, productID string) ([]PricePoint, error) {
	reqURL := fmt.Sprintf("%s/product/%s/pricepoints", s.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pricepoints for product %s: %w", productID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mpapi returned status %d for product %s", resp.StatusCode, productID)
	}

	var points []PricePoint
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return nil, fmt.Errorf("failed to decode pricepoints for product %s: %w", productID, err)
	}

	return points, nil
}

// SelectMarketPrice picks one price from a pricepoints payload: the Foil
// market price when present, the Normal market price as fallback, nil when
// neither printing carries a non-null price.
func SelectMarketPrice(points []PricePoint) *float64 {
	var normal *float64
	for _, p := range points {
		if p.MarketPrice == nil {
			continue
		}
		switch p.PrintingType {
		case "Foil":
			return p.MarketPrice
		case "Normal":
			if normal == nil {
				normal = p.MarketPrice
			}
		}
	}
	return normal
}
