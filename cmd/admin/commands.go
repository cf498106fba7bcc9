package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"vayada_admin/internal/app"
	"vayada_admin/internal/domain"
	"vayada_admin/internal/listview"
)

var errUsage = errors.New("usage")

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// setFlags names the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	return seen
}

// parse accepts flags before or after the positional arguments.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, errUsage
		}
		if fs.NArg() == 0 {
			return pos, nil
		}
		pos = append(pos, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", c.cfg.AdminEmail, "admin email")
	password := fs.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	resp, err := c.auth.Login(ctx, domain.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Logged in as %s (%s).\n", resp.Name, resp.Email)
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	me, err := c.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\nName:\t%s\nEmail:\t%s\nType:\t%s\nStatus:\t%s\n", me.ID, me.Name, me.Email, me.Type, me.Status)
	return tw.Flush()
}

func (c *cli) showStats(ctx context.Context) error {
	st, err := c.stats.Dashboard(ctx)
	if err != nil {
		return err
	}
	return app.RenderStats(c.out, st)
}

func (c *cli) usersCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, args := args[0], args[1:]
	switch sub {
	case "list":
		fs := newFlags("users list")
		typ := fs.String("type", app.FilterAll, "hotel|creator|admin|all")
		status := fs.String("status", app.FilterAll, "pending|verified|rejected|suspended|all")
		search := fs.String("search", "", "name or email")
		page := fs.Int("page", 1, "page number")
		if _, err := parse(fs, args); err != nil {
			return err
		}
		q := domain.UsersQuery{
			Type: domain.Role(*typ), Status: domain.UserStatus(*status), Search: *search,
			Page: max(*page, 1), PageSize: c.cfg.PageSize,
		}
		out, err := c.users.List(ctx, q)
		if err != nil {
			return listErr(err)
		}
		if err := app.RenderUsers(c.out, out.Users); err != nil {
			return err
		}
		app.RenderPageFooter(c.out, listview.NewPageInfo(q.Page, q.PageSize, out.Total, out.TotalPages))
		return nil

	case "get":
		if len(args) != 1 {
			return errUsage
		}
		u, err := c.users.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return app.RenderUser(c.out, u)

	case "create":
		fs := newFlags("users create")
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "initial password")
		typ := fs.String("type", "", "hotel|creator|admin")
		status := fs.String("status", "", "initial status")
		if _, err := parse(fs, args); err != nil {
			return err
		}
		u, err := c.users.Create(ctx, domain.CreateUserRequest{
			Name: *name, Email: *email, Password: *password,
			Type: domain.Role(*typ), Status: domain.UserStatus(*status),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Created %s user %s (%s).\n", u.Type, u.Email, u.ID)
		return nil

	case "update":
		fs := newFlags("users update")
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email")
		status := fs.String("status", "", "pending|verified|rejected|suspended")
		pos, err := parse(fs, args)
		if err != nil || len(pos) != 1 {
			return errUsage
		}
		set := setFlags(fs)
		var req domain.UpdateUserRequest
		if set["name"] {
			req.Name = name
		}
		if set["email"] {
			req.Email = email
		}
		if set["status"] {
			st := domain.UserStatus(*status)
			req.Status = &st
		}
		if len(set) == 0 {
			return errUsage
		}
		u, err := c.users.Update(ctx, pos[0], req)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Updated user %s.\n", u.ID)
		return app.RenderUser(c.out, u)

	case "status":
		fs := newFlags("users status")
		reason := fs.String("reason", "", "optional reason shown to the user")
		pos, err := parse(fs, args)
		if err != nil || len(pos) != 2 {
			return errUsage
		}
		ch, err := c.users.UpdateStatus(ctx, pos[0], domain.UserStatus(pos[1]), *reason)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Status of %s changed from %s to %s.\n", pos[0], ch.OldStatus, ch.NewStatus)
		return nil

	case "delete":
		if len(args) != 1 {
			return errUsage
		}
		if err := c.users.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted user %s.\n", args[0])
		return nil
	}
	return errUsage
}

func (c *cli) platformsCmd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	sub, userID, args := args[0], args[1], args[2:]
	switch sub {
	case "list":
		ps, err := c.plats.List(ctx, userID)
		if err != nil {
			return listErr(err)
		}
		return app.RenderPlatforms(c.out, ps)

	case "add":
		fs := newFlags("platforms add")
		kind := fs.String("platform", "", "instagram|youtube|tiktok|twitter|facebook|linkedin|other")
		handle := fs.String("handle", "", "account handle")
		url := fs.String("url", "", "profile URL")
		followers := fs.Int64("followers", -1, "follower count")
		engagement := fs.Float64("engagement", -1, "engagement rate in percent")
		if _, err := parse(fs, args); err != nil || *kind == "" {
			return errUsage
		}
		in := domain.PlatformInput{Platform: domain.PlatformKind(*kind), Handle: *handle, URL: *url}
		if *followers >= 0 {
			in.FollowerCount = followers
		}
		if *engagement >= 0 {
			in.EngagementRate = engagement
		}
		p, err := c.plats.Create(ctx, userID, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Added %s %s (%s).\n", p.Platform, p.Handle, p.ID)
		return nil

	case "get":
		if len(args) != 1 {
			return errUsage
		}
		p, err := c.plats.Get(ctx, userID, args[0])
		if err != nil {
			return err
		}
		return app.RenderPlatforms(c.out, []domain.SocialMediaPlatform{p})

	case "update":
		fs := newFlags("platforms update")
		handle := fs.String("handle", "", "account handle")
		url := fs.String("url", "", "profile URL")
		followers := fs.Int64("followers", 0, "follower count")
		engagement := fs.Float64("engagement", 0, "engagement rate in percent")
		verified := fs.Bool("verified", false, "mark the account verified")
		pos, err := parse(fs, args)
		if err != nil || len(pos) != 1 {
			return errUsage
		}
		set := setFlags(fs)
		if len(set) == 0 {
			return errUsage
		}
		var in domain.PlatformInput
		if set["handle"] {
			in.Handle = *handle
		}
		if set["url"] {
			in.URL = *url
		}
		if set["followers"] {
			in.FollowerCount = followers
		}
		if set["engagement"] {
			in.EngagementRate = engagement
		}
		if set["verified"] {
			in.Verified = verified
		}
		p, err := c.plats.Update(ctx, userID, pos[0], in)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Updated platform %s.\n", p.ID)
		return app.RenderPlatforms(c.out, []domain.SocialMediaPlatform{p})

	case "delete":
		if len(args) != 1 {
			return errUsage
		}
		if err := c.plats.Delete(ctx, userID, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted platform %s.\n", args[0])
		return nil
	}
	return errUsage
}

func (c *cli) listingsCmd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	sub, userID, args := args[0], args[1], args[2:]
	switch sub {
	case "list":
		fs := newFlags("listings list")
		status := fs.String("status", app.FilterAll, "listing status or all")
		if _, err := parse(fs, args); err != nil {
			return err
		}
		out, err := c.lists.List(ctx, userID, domain.ListingsQuery{Status: domain.ListingStatus(*status)})
		if err != nil {
			return listErr(err)
		}
		return app.RenderListings(c.out, out.Listings)

	case "add":
		fs := newFlags("listings add")
		name := fs.String("name", "", "listing name")
		location := fs.String("location", "", "location")
		kind := fs.String("type", "", "Hotel|Boutique Hotel|Lodge|Apartment|Villa")
		status := fs.String("status", "", "initial status")
		if _, err := parse(fs, args); err != nil || *name == "" {
			return errUsage
		}
		l, err := c.lists.Create(ctx, userID, domain.ListingInput{
			Name: *name, Location: *location, AccommodationType: *kind, Status: domain.ListingStatus(*status),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Added listing %s (%s).\n", l.DisplayName(), l.ID)
		return nil

	case "get":
		if len(args) != 1 {
			return errUsage
		}
		l, err := c.lists.Get(ctx, userID, args[0])
		if err != nil {
			return err
		}
		return app.RenderListings(c.out, []domain.Listing{l})

	case "update":
		fs := newFlags("listings update")
		name := fs.String("name", "", "listing name")
		location := fs.String("location", "", "location")
		description := fs.String("description", "", "description")
		kind := fs.String("type", "", "accommodation type")
		status := fs.String("status", "", "listing status")
		pos, err := parse(fs, args)
		if err != nil || len(pos) != 1 {
			return errUsage
		}
		set := setFlags(fs)
		if len(set) == 0 {
			return errUsage
		}
		in := domain.ListingInput{
			Name: *name, Location: *location, Description: *description,
			AccommodationType: *kind, Status: domain.ListingStatus(*status),
		}
		l, err := c.lists.Update(ctx, userID, pos[0], in)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Updated listing %s.\n", l.ID)
		return app.RenderListings(c.out, []domain.Listing{l})

	case "delete":
		if len(args) != 1 {
			return errUsage
		}
		if err := c.lists.Delete(ctx, userID, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted listing %s.\n", args[0])
		return nil
	}
	return errUsage
}

func (c *cli) collaborationsCmd(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return errUsage
	}
	fs := newFlags("collaborations list")
	status := fs.String("status", app.FilterAll, "collaboration status or all")
	search := fs.String("search", "", "creator, hotel or listing")
	page := fs.Int("page", 1, "page number")
	if _, err := parse(fs, args[1:]); err != nil {
		return err
	}
	q := domain.CollaborationsQuery{
		Page: max(*page, 1), PageSize: c.cfg.PageSize, Status: domain.CollaborationStatus(*status), Search: *search,
	}
	out, err := c.collab.List(ctx, q)
	if err != nil {
		return listErr(err)
	}
	if err := app.RenderCollaborations(c.out, out.Collaborations); err != nil {
		return err
	}
	app.RenderPageFooter(c.out, listview.NewPageInfo(q.Page, q.PageSize, out.Total, 0))
	return nil
}

func (c *cli) marketplace(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	switch args[0] {
	case "listings":
		ls, err := c.market.Listings(ctx)
		if err != nil {
			return listErr(err)
		}
		return app.RenderMarketplaceListings(c.out, ls)
	case "creators":
		cs, err := c.market.Creators(ctx)
		if err != nil {
			return listErr(err)
		}
		return app.RenderMarketplaceCreators(c.out, cs)
	}
	return errUsage
}

func (c *cli) auditCmd(ctx context.Context, args []string) error {
	fs := newFlags("audit")
	limit := fs.Int("limit", 50, "entries to show")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if c.audit == nil {
		return errors.New("audit log is not configured; set MYSQL_DSN")
	}
	entries, err := c.audit.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AT\tACTOR\tACTION\tTARGET\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.At.Format("2006-01-02 15:04:05"), e.Actor, e.Action, e.TargetID, e.Detail)
	}
	return tw.Flush()
}

// listError marks a failed collection fetch so a 404 reads as missing routes.
type listError struct{ err error }

func (e listError) Error() string { return e.err.Error() }
func (e listError) Unwrap() error { return e.err }

func listErr(err error) error { return listError{err} }
