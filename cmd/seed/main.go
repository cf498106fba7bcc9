package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"vayada_admin/internal/adapters/observability"
	redisad "vayada_admin/internal/adapters/redis"
	"vayada_admin/internal/adapters/vayada"
	"vayada_admin/internal/app"
	"vayada_admin/internal/domain"
	"vayada_admin/internal/shared"
	"vayada_admin/internal/storage/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv)

	log.Info().
		Str("api", cfg.APIURL).
		Str("admin", cfg.AdminEmail).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	// the seeder's session lives only for this run
	var auth *app.AuthService
	client, err := vayada.New(cfg.APIURL,
		vayada.WithRateLimit(cfg.APIRPS),
		vayada.WithRetries(cfg.APIRetries),
		vayada.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		vayada.WithTokenSource(vayada.TokenFunc(func(ctx context.Context) (string, bool) { return auth.Token(ctx) })),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backend client")
	}
	auth = app.NewAuthService(client, session.NewMemory())

	if _, err := auth.Login(ctx, domain.Credentials{Email: cfg.AdminEmail, Password: cfg.AdminPassword}); err != nil {
		log.Fatal().Err(err).Msg(app.ErrorMessage(err, "admin login failed"))
	}
	log.Info().Msg("login ok")

	seeder := app.NewSeedService(
		app.NewUsersService(client, nil),
		app.NewListingsService(client, nil),
		app.NewPlatformsService(client, nil),
		cfg.SeedWorkers,
	)
	sum, err := seeder.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding interrupted")
	}
	if cfg.SharedCache {
		cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		app.NewMarketplaceService(client, cache, cfg.CacheTTL).Invalidate(ctx)
	}

	fmt.Println("Summary:")
	fmt.Printf("  - Hotels created: %d\n", sum.Hotels)
	fmt.Printf("  - Creators created: %d\n", sum.Creators)
	fmt.Printf("  - Total listings: %d\n", sum.Listings)
	fmt.Printf("  - Total platforms: %d\n", sum.Platforms)
	if sum.Failed > 0 {
		fmt.Printf("  - Failed users: %d\n", sum.Failed)
	}
	log.Info().Msg("seeding completed")
}
