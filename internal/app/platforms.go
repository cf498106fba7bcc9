package app

import (
	"context"
	"net/url"

	"vayada_admin/internal/domain"
)

// PlatformsService manages a creator's social-media platform records.
type PlatformsService struct {
	api    domain.Backend
	audit  *Auditor
	market *MarketplaceService
}

func NewPlatformsService(api domain.Backend, audit *Auditor) *PlatformsService {
	return &PlatformsService{api: api, audit: audit}
}

// WithMarketplace makes every mutation drop the cached marketplace projections.
func (s *PlatformsService) WithMarketplace(m *MarketplaceService) *PlatformsService {
	s.market = m
	return s
}

func platformsPath(userID string) string { return userPath(userID) + "/social-media" }

func platformPath(userID, platformID string) string {
	return platformsPath(userID) + "/" + url.PathEscape(platformID)
}

func (s *PlatformsService) List(ctx context.Context, userID string) ([]domain.SocialMediaPlatform, error) {
	var out []domain.SocialMediaPlatform
	if err := s.api.Get(ctx, platformsPath(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PlatformsService) Get(ctx context.Context, userID, platformID string) (domain.SocialMediaPlatform, error) {
	var out domain.SocialMediaPlatform
	return out, s.api.Get(ctx, platformPath(userID, platformID), nil, &out)
}

func (s *PlatformsService) Create(ctx context.Context, userID string, in domain.PlatformInput) (domain.SocialMediaPlatform, error) {
	var out domain.SocialMediaPlatform
	if err := s.api.Post(ctx, platformsPath(userID), in, &out); err != nil {
		return domain.SocialMediaPlatform{}, err
	}
	s.audit.Record(ctx, "platform.create", userID, string(in.Platform)+" "+in.Handle)
	s.market.Invalidate(ctx)
	return out, nil
}

func (s *PlatformsService) Update(ctx context.Context, userID, platformID string, in domain.PlatformInput) (domain.SocialMediaPlatform, error) {
	var out domain.SocialMediaPlatform
	if err := s.api.Put(ctx, platformPath(userID, platformID), in, &out); err != nil {
		return domain.SocialMediaPlatform{}, err
	}
	s.audit.Record(ctx, "platform.update", userID, platformID)
	s.market.Invalidate(ctx)
	return out, nil
}

func (s *PlatformsService) Delete(ctx context.Context, userID, platformID string) error {
	if err := s.api.Delete(ctx, platformPath(userID, platformID), nil); err != nil {
		return err
	}
	s.audit.Record(ctx, "platform.delete", userID, platformID)
	s.market.Invalidate(ctx)
	return nil
}
