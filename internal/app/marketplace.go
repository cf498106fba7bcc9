package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"vayada_admin/internal/domain"
)

const (
	keyMarketplaceListings = "marketplace:listings"
	keyMarketplaceCreators = "marketplace:creators"
)

// MarketplaceService reads the public marketplace projections. The cache is
// optional; with a nil cache every call goes to the backend.
type MarketplaceService struct {
	api      domain.Backend
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewMarketplaceService(api domain.Backend, c domain.Cache, ttl time.Duration) *MarketplaceService {
	return &MarketplaceService{api: api, cache: c, cacheTTL: ttl}
}

func (s *MarketplaceService) Listings(ctx context.Context) ([]domain.MarketplaceListing, error) {
	var out []domain.MarketplaceListing
	if err := s.cached(ctx, keyMarketplaceListings, "/marketplace/listings", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MarketplaceService) Creators(ctx context.Context) ([]domain.MarketplaceCreator, error) {
	var out []domain.MarketplaceCreator
	if err := s.cached(ctx, keyMarketplaceCreators, "/marketplace/creators", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate drops both cached projections. Nil-safe.
func (s *MarketplaceService) Invalidate(ctx context.Context) {
	if s == nil || s.cache == nil {
		return
	}
	for _, k := range []string{keyMarketplaceListings, keyMarketplaceCreators} {
		if err := s.cache.Del(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("marketplace cache invalidation failed")
		}
	}
}

func (s *MarketplaceService) cached(ctx context.Context, key, path string, out any) error {
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, out); ok {
			return nil
		}
	}
	if err := s.api.GetPublic(ctx, path, nil, out); err != nil {
		return err
	}
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	// large projections are served uncached
	if b, _ := json.Marshal(out); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return nil
}
