package app

import (
	"context"
	"net/url"
	"strconv"

	"vayada_admin/internal/domain"
)

type ListingsService struct {
	api    domain.Backend
	audit  *Auditor
	market *MarketplaceService
}

func NewListingsService(api domain.Backend, audit *Auditor) *ListingsService {
	return &ListingsService{api: api, audit: audit}
}

// WithMarketplace makes every mutation drop the cached marketplace projections.
func (s *ListingsService) WithMarketplace(m *MarketplaceService) *ListingsService {
	s.market = m
	return s
}

func listingsPath(userID string) string { return userPath(userID) + "/listings" }

func listingPath(userID, listingID string) string {
	return listingsPath(userID) + "/" + url.PathEscape(listingID)
}

func listingsValues(q domain.ListingsQuery) url.Values {
	v := url.Values{}
	if q.Status != "" && string(q.Status) != FilterAll {
		v.Set("status", string(q.Status))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

func (s *ListingsService) List(ctx context.Context, userID string, q domain.ListingsQuery) (domain.ListingsPage, error) {
	var out domain.ListingsPage
	if err := s.api.Get(ctx, listingsPath(userID), listingsValues(q), &out); err != nil {
		return domain.ListingsPage{}, err
	}
	return out, nil
}

func (s *ListingsService) Get(ctx context.Context, userID, listingID string) (domain.Listing, error) {
	var out domain.Listing
	return out, s.api.Get(ctx, listingPath(userID, listingID), nil, &out)
}

func (s *ListingsService) Create(ctx context.Context, userID string, in domain.ListingInput) (domain.Listing, error) {
	var out domain.Listing
	if err := s.api.Post(ctx, listingsPath(userID), in, &out); err != nil {
		return domain.Listing{}, err
	}
	s.audit.Record(ctx, "listing.create", userID, in.Title+in.Name)
	s.market.Invalidate(ctx)
	return out, nil
}

func (s *ListingsService) Update(ctx context.Context, userID, listingID string, in domain.ListingInput) (domain.Listing, error) {
	var out domain.Listing
	if err := s.api.Put(ctx, listingPath(userID, listingID), in, &out); err != nil {
		return domain.Listing{}, err
	}
	s.audit.Record(ctx, "listing.update", userID, listingID)
	s.market.Invalidate(ctx)
	return out, nil
}

func (s *ListingsService) Delete(ctx context.Context, userID, listingID string) error {
	if err := s.api.Delete(ctx, listingPath(userID, listingID), nil); err != nil {
		return err
	}
	s.audit.Record(ctx, "listing.delete", userID, listingID)
	s.market.Invalidate(ctx)
	return nil
}
