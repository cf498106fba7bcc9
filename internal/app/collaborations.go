package app

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"vayada_admin/internal/domain"
)

type CollaborationsService struct{ api domain.Backend }

func NewCollaborationsService(api domain.Backend) *CollaborationsService {
	return &CollaborationsService{api: api}
}

// List always sends page and page_size; status "all" and blank search are omitted.
func (s *CollaborationsService) List(ctx context.Context, q domain.CollaborationsQuery) (domain.CollaborationsPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	if q.Status != "" && string(q.Status) != FilterAll {
		v.Set("status", string(q.Status))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}

	var out domain.CollaborationsPage
	if err := s.api.Get(ctx, "/admin/collaborations", v, &out); err != nil {
		return domain.CollaborationsPage{}, err
	}
	return out, nil
}
