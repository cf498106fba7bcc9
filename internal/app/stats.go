package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"vayada_admin/internal/domain"
)

// StatsService derives the dashboard counters from user-list totals.
type StatsService struct{ users *UsersService }

func NewStatsService(u *UsersService) *StatsService { return &StatsService{users: u} }

// Dashboard issues one page_size=1 query per counter concurrently. The first
// failure cancels the rest.
func (s *StatsService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var out domain.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	count := func(status domain.UserStatus, dst *int) {
		g.Go(func() error {
			p, err := s.users.List(gctx, domain.UsersQuery{Status: status, Page: 1, PageSize: 1})
			if err != nil {
				return err
			}
			*dst = p.Total
			return nil
		})
	}
	count("", &out.Total)
	count(domain.StatusPending, &out.Pending)
	count(domain.StatusVerified, &out.Verified)
	count(domain.StatusRejected, &out.Rejected)
	count(domain.StatusSuspended, &out.Suspended)

	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}
	return out, nil
}
