package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"vayada_admin/internal/domain"
)

type HotelSeed struct{ Name, Location string }

type CreatorSeed struct{ Name, Location, Handle string }

var DemoHotels = []HotelSeed{
	{"Grand Paradise Resort", "Maldives"},
	{"Mountain View Lodge", "Switzerland"},
	{"Ocean Breeze Hotel", "Bali, Indonesia"},
	{"City Center Plaza", "New York, USA"},
	{"Desert Oasis Resort", "Dubai, UAE"},
}

var DemoCreators = []CreatorSeed{
	{"Sarah Johnson", "Los Angeles, USA", "@sarahjtravels"},
	{"Marcus Chen", "Tokyo, Japan", "@marcusexplores"},
	{"Emma Williams", "London, UK", "@emmawanderlust"},
	{"David Rodriguez", "Barcelona, Spain", "@davidroam"},
	{"Lisa Anderson", "Sydney, Australia", "@lisajourneys"},
}

var demoListings = []struct{ Name, Description, Type string }{
	{"Deluxe Suite", "Spacious suite with ocean view and premium amenities", "Hotel"},
	{"Executive Room", "Comfortable room perfect for business travelers", "Boutique Hotel"},
	{"Family Villa", "Large villa ideal for families with children", "Villa"},
}

// verifiedListingHotels is how many leading hotels get verified listings; the rest are pending.
const verifiedListingHotels = 3

const seedPassword = "password123"

type SeedSummary struct {
	Hotels    int
	Creators  int
	Listings  int
	Platforms int
	Failed    int
}

// SeedService creates the demo marketplace through the admin endpoints.
type SeedService struct {
	users     *UsersService
	listings  *ListingsService
	platforms *PlatformsService
	workers   int64
}

func NewSeedService(u *UsersService, l *ListingsService, p *PlatformsService, workers int) *SeedService {
	if workers < 1 {
		workers = 1
	}
	return &SeedService{users: u, listings: l, platforms: p, workers: int64(workers)}
}

// Run seeds every demo hotel, then every demo creator. A failed user is
// logged and skipped.
func (s *SeedService) Run(ctx context.Context) (SeedSummary, error) {
	var (
		mu  sync.Mutex
		sum SeedSummary
	)
	hotels := func(ctx context.Context, i int) error {
		_, n, err := s.SeedHotel(ctx, i)
		mu.Lock()
		defer mu.Unlock()
		sum.Listings += n
		if err != nil {
			sum.Failed++
			return err
		}
		sum.Hotels++
		return nil
	}
	creators := func(ctx context.Context, i int) error {
		_, n, err := s.SeedCreator(ctx, i)
		mu.Lock()
		defer mu.Unlock()
		sum.Platforms += n
		if err != nil {
			sum.Failed++
			return err
		}
		sum.Creators++
		return nil
	}

	if err := s.each(ctx, "hotel", len(DemoHotels), hotels); err != nil {
		return sum, err
	}
	if err := s.each(ctx, "creator", len(DemoCreators), creators); err != nil {
		return sum, err
	}
	return sum, nil
}

// each runs fn for 0..n-1 with at most s.workers in flight.
func (s *SeedService) each(ctx context.Context, kind string, n int, fn func(context.Context, int) error) error {
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			if err := fn(ctx, i); err != nil {
				log.Warn().Err(err).Str("kind", kind).Int("index", i+1).Msg("seed failed")
				return
			}
			log.Info().Str("kind", kind).Int("index", i+1).Msg("seed ok")
		}(i)
	}
	wg.Wait()
	return nil
}

func slug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// SeedHotel creates demo hotel i with its profile and listings and returns
// the user ID and the number of listings created.
func (s *SeedService) SeedHotel(ctx context.Context, i int) (string, int, error) {
	h := DemoHotels[i]
	u, err := s.users.Create(ctx, domain.CreateUserRequest{
		Name:     h.Name,
		Email:    fmt.Sprintf("hotel%d@example.com", i+1),
		Password: seedPassword,
		Type:     domain.RoleHotel,
		Status:   domain.StatusVerified,
	})
	if err != nil {
		return "", 0, fmt.Errorf("create hotel %q: %w", h.Name, err)
	}

	complete := true
	err = s.users.UpdateHotelProfile(ctx, u.ID, domain.HotelProfile{
		Name:            h.Name,
		Location:        h.Location,
		About:           fmt.Sprintf("Welcome to %s, located in %s. Experience luxury and comfort with world-class amenities.", h.Name, h.Location),
		Website:         "https://" + slug(h.Name) + ".com",
		Phone:           fmt.Sprintf("+1-555-%d", 1000+i),
		Picture:         fmt.Sprintf("https://images.unsplash.com/photo-%d?w=800", 1560000000+i),
		ProfileComplete: &complete,
	})
	if err != nil {
		return u.ID, 0, fmt.Errorf("hotel profile %s: %w", u.ID, err)
	}

	status := domain.ListingPending
	if i < verifiedListingHotels {
		status = domain.ListingVerified
	}
	for j, l := range demoListings {
		_, err := s.listings.Create(ctx, u.ID, domain.ListingInput{
			Name:              l.Name,
			Location:          h.Location,
			Description:       l.Description,
			AccommodationType: l.Type,
			Images: []string{
				fmt.Sprintf("https://images.unsplash.com/photo-%d?w=800", 1570000000+i+j),
				fmt.Sprintf("https://images.unsplash.com/photo-%d?w=800", 1580000000+i+j),
			},
			Status: status,
		})
		if err != nil {
			return u.ID, j, fmt.Errorf("listing %q for %s: %w", l.Name, u.ID, err)
		}
	}
	return u.ID, len(demoListings), nil
}

// SeedCreator creates demo creator i with its profile and platforms.
func (s *SeedService) SeedCreator(ctx context.Context, i int) (string, int, error) {
	c := DemoCreators[i]
	u, err := s.users.Create(ctx, domain.CreateUserRequest{
		Name:     c.Name,
		Email:    fmt.Sprintf("creator%d@example.com", i+1),
		Password: seedPassword,
		Type:     domain.RoleCreator,
		Status:   domain.StatusVerified,
	})
	if err != nil {
		return "", 0, fmt.Errorf("create creator %q: %w", c.Name, err)
	}

	complete := true
	err = s.users.UpdateCreatorProfile(ctx, u.ID, domain.CreatorProfile{
		Location:         c.Location,
		ShortDescription: "Travel content creator sharing amazing destinations and experiences. Follow for travel tips and inspiration!",
		PortfolioLink:    "https://" + slug(c.Name) + ".com",
		Phone:            fmt.Sprintf("+1-555-%d", 2000+i),
		ProfilePicture:   fmt.Sprintf("https://images.unsplash.com/photo-%d?w=400", 1590000000+i),
		ProfileComplete:  &complete,
	})
	if err != nil {
		return u.ID, 0, fmt.Errorf("creator profile %s: %w", u.ID, err)
	}

	n := int64(i + 1)
	f := float64(i)
	platforms := []domain.PlatformInput{
		{Platform: domain.PlatformInstagram, Handle: c.Handle, FollowerCount: ptr(n * 50_000), EngagementRate: ptr(3.5 + f*0.5)},
		{Platform: domain.PlatformTikTok, Handle: strings.TrimPrefix(c.Handle, "@"), FollowerCount: ptr(n * 30_000), EngagementRate: ptr(4.0 + f*0.3)},
		{Platform: domain.PlatformYouTube, Handle: strings.Replace(c.Name, " ", "", 1), FollowerCount: ptr(n * 20_000), EngagementRate: ptr(2.5 + f*0.4)},
	}
	for j, p := range platforms {
		if _, err := s.platforms.Create(ctx, u.ID, p); err != nil {
			return u.ID, j, fmt.Errorf("platform %s for %s: %w", p.Platform, u.ID, err)
		}
	}
	return u.ID, len(platforms), nil
}

func ptr[T any](v T) *T { return &v }
