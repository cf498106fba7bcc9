// Command vayada-admin is the operator CLI for the marketplace back office.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"vayada_admin/internal/adapters/observability"
	redisad "vayada_admin/internal/adapters/redis"
	"vayada_admin/internal/adapters/vayada"
	"vayada_admin/internal/app"
	"vayada_admin/internal/domain"
	"vayada_admin/internal/shared"
	mysqlrepo "vayada_admin/internal/storage/mysql"
	"vayada_admin/internal/storage/session"
)

const usage = `usage: vayada-admin <command> [flags]

commands:
  login [-email E] [-password P]
  logout
  whoami
  stats
  users list [-type T] [-status S] [-search Q] [-page N]
  users get <id>
  users create -name N -email E -password P -type hotel|creator|admin [-status S]
  users update <id> [-name N] [-email E] [-status S]
  users status <id> <pending|verified|rejected|suspended> [-reason R]
  users delete <id>
  platforms list <user-id>
  platforms add <user-id> -platform P -handle H [-url U] [-followers N] [-engagement R]
  platforms get <user-id> <platform-id>
  platforms update <user-id> <platform-id> [-handle H] [-url U] [-followers N] [-engagement R] [-verified]
  platforms delete <user-id> <platform-id>
  listings list <user-id> [-status S]
  listings add <user-id> -name N [-location L] [-type T] [-status S]
  listings get <user-id> <listing-id>
  listings update <user-id> <listing-id> [-name N] [-location L] [-description D] [-type T] [-status S]
  listings delete <user-id> <listing-id>
  collaborations list [-status S] [-search Q] [-page N]
  marketplace listings|creators
  audit [-limit N]
  browse users|collaborations
`

// cli carries the wired services for one invocation.
type cli struct {
	cfg    shared.Config
	out    io.Writer
	auth   *app.AuthService
	audit  *app.Auditor
	users  *app.UsersService
	plats  *app.PlatformsService
	lists  *app.ListingsService
	collab *app.CollaborationsService
	market *app.MarketplaceService
	stats  *app.StatsService
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	cfg := shared.Load()
	log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	c, err := wire(cfg, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	code := c.run(ctx, os.Args[1], os.Args[2:])
	stop()
	os.Exit(code)
}

func sessionStore(cfg shared.Config) domain.SessionStore {
	switch cfg.SessionBackend {
	case "memory":
		return session.NewMemory()
	case "redis":
		rc := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
		return redisad.NewSessionStore(rc, cfg.SessionKey)
	}
	path := cfg.SessionFile
	if path == "" {
		path = session.DefaultPath()
	}
	return session.NewFile(path)
}

func wire(cfg shared.Config, out io.Writer) (*cli, error) {
	c := &cli{cfg: cfg, out: out}

	client, err := vayada.New(cfg.APIURL,
		vayada.WithRateLimit(cfg.APIRPS),
		vayada.WithRetries(cfg.APIRetries),
		vayada.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		vayada.WithTokenSource(vayada.TokenFunc(func(ctx context.Context) (string, bool) { return c.auth.Token(ctx) })),
		vayada.WithUnauthorizedHook(func() { c.auth.Invalidate() }),
	)
	if err != nil {
		return nil, err
	}
	c.auth = app.NewAuthService(client, sessionStore(cfg), app.WithLogoutHook(func() {
		fmt.Fprintln(out, "Logged out. Run `vayada-admin login` to sign in again.")
	}))

	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("open audit db: %w", err)
		}
		c.audit = app.NewAuditor(mysqlrepo.New(db), c.auth.Actor)
	}

	// with a shared cache, edits here evict what the gateway serves
	var cache domain.Cache
	if cfg.SharedCache {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}
	c.market = app.NewMarketplaceService(client, cache, cfg.CacheTTL)
	c.users = app.NewUsersService(client, c.audit)
	c.plats = app.NewPlatformsService(client, c.audit).WithMarketplace(c.market)
	c.lists = app.NewListingsService(client, c.audit).WithMarketplace(c.market)
	c.collab = app.NewCollaborationsService(client)
	c.stats = app.NewStatsService(c.users)
	return c, nil
}

// run dispatches one command and returns the process exit code.
func (c *cli) run(ctx context.Context, cmd string, args []string) int {
	if err := c.auth.Hydrate(ctx); err != nil {
		log.Warn().Err(err).Msg("session load failed, continuing logged out")
	}

	var err error
	switch cmd {
	case "login":
		err = c.login(ctx, args)
	case "logout":
		err = c.auth.Logout(ctx)
	case "marketplace":
		err = c.marketplace(ctx, args)
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
	default:
		if !c.auth.IsLoggedIn(ctx) || !c.auth.IsAdmin() {
			err = domain.ErrNoSession
			break
		}
		err = c.admin(ctx, cmd, args)
	}
	if err == nil {
		return 0
	}
	if errors.Is(err, errUsage) {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	fallback := "Something went wrong: " + err.Error()
	var le listError
	if errors.As(err, &le) {
		fmt.Fprintln(os.Stderr, app.ListErrorMessage(err, fallback))
	} else {
		fmt.Fprintln(os.Stderr, app.ErrorMessage(err, fallback))
	}
	for f, msg := range app.FieldErrors(err) {
		if f != "" {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f, msg)
		}
	}
	return 1
}

func (c *cli) admin(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "whoami":
		return c.whoami(ctx)
	case "stats":
		return c.showStats(ctx)
	case "users":
		return c.usersCmd(ctx, args)
	case "platforms":
		return c.platformsCmd(ctx, args)
	case "listings":
		return c.listingsCmd(ctx, args)
	case "collaborations":
		return c.collaborationsCmd(ctx, args)
	case "audit":
		return c.auditCmd(ctx, args)
	case "browse":
		return c.browse(ctx, args, os.Stdin)
	}
	return errUsage
}
