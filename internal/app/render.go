package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"vayada_admin/internal/domain"
	"vayada_admin/internal/listview"
)

// FormatCount abbreviates follower counts: 1234 -> 1.2K, 3400000 -> 3.4M.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	}
	return strconv.FormatInt(n, 10)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func RenderUsers(w io.Writer, users []domain.User) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tTYPE\tSTATUS\tCREATED")
	for _, u := range users {
		created := "-"
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, orDash(u.Name), u.Email, u.Type, u.Status, created)
	}
	return tw.Flush()
}

// RenderUser prints one user with its nested profile.
func RenderUser(w io.Writer, u domain.User) error {
	tw := table(w)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", orDash(u.Name))
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Type:\t%s\n", u.Type)
	fmt.Fprintf(tw, "Status:\t%s\n", u.Status)
	if p := u.HotelProfile; p != nil {
		name := p.HotelName
		if name == "" {
			name = p.Name
		}
		fmt.Fprintf(tw, "Hotel:\t%s\n", orDash(name))
		fmt.Fprintf(tw, "Location:\t%s\n", orDash(p.Location))
		fmt.Fprintf(tw, "Website:\t%s\n", orDash(p.Website))
	}
	if p := u.CreatorProfile; p != nil {
		fmt.Fprintf(tw, "Location:\t%s\n", orDash(p.Location))
		fmt.Fprintf(tw, "About:\t%s\n", orDash(p.ShortDescription))
		fmt.Fprintf(tw, "Portfolio:\t%s\n", orDash(p.PortfolioLink))
	}
	if n := len(u.Platforms); n > 0 {
		fmt.Fprintf(tw, "Platforms:\t%d\n", n)
	}
	if n := len(u.Listings); n > 0 {
		fmt.Fprintf(tw, "Listings:\t%d\n", n)
	}
	return tw.Flush()
}

func RenderPlatforms(w io.Writer, ps []domain.SocialMediaPlatform) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tPLATFORM\tHANDLE\tFOLLOWERS\tENGAGEMENT\tVERIFIED")
	for _, p := range ps {
		followers, engagement, verified := "-", "-", "no"
		if p.FollowerCount != nil {
			followers = FormatCount(*p.FollowerCount)
		}
		if p.EngagementRate != nil {
			engagement = strconv.FormatFloat(*p.EngagementRate, 'f', 1, 64) + "%"
		}
		if p.Verified != nil && *p.Verified {
			verified = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Platform, orDash(p.Handle), followers, engagement, verified)
	}
	return tw.Flush()
}

func RenderListings(w io.Writer, ls []domain.Listing) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tLOCATION\tSTATUS")
	for _, l := range ls {
		kind := l.AccommodationType
		if kind == "" {
			kind = l.Category
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.ID, orDash(l.DisplayName()), orDash(kind), orDash(l.Location), orDash(string(l.Status)))
	}
	return tw.Flush()
}

func RenderCollaborations(w io.Writer, cs []domain.Collaboration) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tCREATOR\tHOTEL\tLISTING\tSTATUS\tTERMS\tDATES")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, orDash(c.CreatorName), orDash(c.HotelName), orDash(c.ListingName), c.Status, c.Compensation(), c.Dates())
	}
	return tw.Flush()
}

// RenderCollaboration is the detail view: parties, terms, deliverables per
// platform with their completion state, the application note and timestamps.
func RenderCollaboration(w io.Writer, c domain.Collaboration) error {
	via := "Invitation"
	if c.InitiatorType == domain.RoleCreator {
		via = "Application"
	}
	kind := "-"
	if c.CollaborationType != nil {
		kind = string(*c.CollaborationType) + " Agreement"
	}
	dates := c.Dates()
	if dates == "-" {
		dates = "TBD"
	}

	tw := table(w)
	fmt.Fprintf(tw, "Collaboration:\t%s\n", c.ID)
	fmt.Fprintf(tw, "Status:\t%s (via %s)\n", strings.ToUpper(string(c.Status)), via)
	fmt.Fprintf(tw, "Creator:\t%s\n", orDash(c.CreatorName))
	fmt.Fprintf(tw, "Hotel:\t%s\n", orDash(c.HotelName))
	fmt.Fprintf(tw, "Listing:\t%s\n", orDash(strings.TrimSpace(c.ListingName+" "+parens(c.ListingLocation))))
	fmt.Fprintf(tw, "Compensation:\t%s\n", c.Compensation())
	fmt.Fprintf(tw, "Agreement:\t%s\n", kind)
	fmt.Fprintf(tw, "Dates:\t%s\n", dates)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nDeliverables:")
	if len(c.PlatformDeliverables) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, g := range c.PlatformDeliverables {
		fmt.Fprintf(w, "  %s\n", strings.ToUpper(g.Platform))
		for _, d := range g.Deliverables {
			mark := "[ ]"
			if d.Status == "completed" {
				mark = "[x]"
			}
			fmt.Fprintf(w, "    %s %dx %s (%s)\n", mark, d.Quantity, d.Type, orDash(d.Status))
		}
	}

	if note := strings.TrimSpace(c.WhyGreatFit); note != "" {
		fmt.Fprintf(w, "\nApplication note:\n  %q\n", note)
	}

	fmt.Fprintf(w, "\nCreated: %s", day(c.CreatedAt))
	if !c.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "  Last updated: %s", day(c.UpdatedAt))
	}
	if c.CompletedAt != nil {
		fmt.Fprintf(w, "  Completed: %s", day(*c.CompletedAt))
	}
	if c.CancelledAt != nil {
		fmt.Fprintf(w, "  Cancelled: %s", day(*c.CancelledAt))
	}
	_, err := fmt.Fprintln(w)
	return err
}

func day(t time.Time) string { return t.Format("2006-01-02") }

func parens(s string) string {
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}

func RenderMarketplaceListings(w io.Writer, ls []domain.MarketplaceListing) error {
	tw := table(w)
	fmt.Fprintln(tw, "HOTEL\tLISTING\tLOCATION\tOFFERS\tMIN FOLLOWERS")
	for _, l := range ls {
		offers := make([]string, 0, len(l.CollaborationOfferings))
		for _, o := range l.CollaborationOfferings {
			offers = append(offers, string(o.CollaborationType))
		}
		minF := "-"
		if r := l.CreatorRequirements; r != nil && r.MinFollowers != nil {
			minF = FormatCount(*r.MinFollowers)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", orDash(l.HotelName), orDash(l.Name), orDash(l.Location), orDash(strings.Join(offers, ", ")), minF)
	}
	return tw.Flush()
}

func RenderMarketplaceCreators(w io.Writer, cs []domain.MarketplaceCreator) error {
	tw := table(w)
	fmt.Fprintln(tw, "NAME\tLOCATION\tAUDIENCE\tRATING\tPLATFORMS")
	for _, c := range cs {
		ps := make([]string, 0, len(c.Platforms))
		for _, p := range c.Platforms {
			ps = append(ps, p.Name+": "+FormatCount(p.Followers))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f (%d)\t%s\n",
			orDash(c.Name), orDash(c.Location), FormatCount(c.AudienceSize), c.AverageRating, c.TotalReviews, orDash(strings.Join(ps, ", ")))
	}
	return tw.Flush()
}

func RenderStats(w io.Writer, s domain.DashboardStats) error {
	tw := table(w)
	fmt.Fprintf(tw, "Total users:\t%d\n", s.Total)
	fmt.Fprintf(tw, "Pending:\t%d\n", s.Pending)
	fmt.Fprintf(tw, "Verified:\t%d\n", s.Verified)
	fmt.Fprintf(tw, "Rejected:\t%d\n", s.Rejected)
	fmt.Fprintf(tw, "Suspended:\t%d\n", s.Suspended)
	return tw.Flush()
}

// RenderPageFooter prints "Showing 41 to 47 of 47 results (page 3 of 3)".
func RenderPageFooter(w io.Writer, p listview.PageInfo) {
	if p.Total == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	fmt.Fprintf(w, "Showing %d to %d of %d results (page %d of %d)\n", p.StartItem, p.EndItem, p.Total, p.Page, p.TotalPages)
}
