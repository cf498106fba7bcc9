package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"vayada_admin/internal/app"
	"vayada_admin/internal/domain"
	"vayada_admin/internal/listview"
)

const browseHelp = `  /text        search (applies after a short pause)
  !            apply the typed search now
  type T       filter users by type (hotel|creator|admin|all)
  status S     filter by status (or all)
  n, p, g N    next, previous, go to page N
  r            reload
  approve ID | reject ID | suspend ID [reason] | delete ID   (users view)
  show ID|ROW  collaboration details   (collaborations view)
  q            quit
`

type userFilter struct {
	Type   domain.Role
	Status domain.UserStatus
}

type collabFilter struct {
	Status domain.CollaborationStatus
}

// view is the part of a list controller the prompt loop drives.
type view interface {
	Start()
	SetSearch(string)
	Submit()
	SetPage(int)
	NextPage()
	PrevPage()
	Refresh()
	Close()
	filter(name, value string) error
	action(ctx context.Context, verb string, args []string) (bool, error)
}

type usersView struct {
	*listview.Controller[domain.User, userFilter]
	users *app.UsersService
}

func (v *usersView) filter(name, value string) error {
	f := v.Snapshot().Key.Filter
	switch name {
	case "type":
		r := domain.Role(value)
		if value != app.FilterAll && !r.Valid() {
			return fmt.Errorf("unknown type %q", value)
		}
		f.Type = r
	case "status":
		s := domain.UserStatus(value)
		if value != app.FilterAll && !s.Valid() {
			return fmt.Errorf("unknown status %q", value)
		}
		f.Status = s
	default:
		return fmt.Errorf("users can be filtered by type or status")
	}
	v.SetFilter(f)
	return nil
}

var verbStatus = map[string]domain.UserStatus{
	"approve": domain.StatusVerified,
	"reject":  domain.StatusRejected,
	"suspend": domain.StatusSuspended,
	"pending": domain.StatusPending,
}

func (v *usersView) action(ctx context.Context, verb string, args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	var err error
	if s, ok := verbStatus[verb]; ok {
		_, err = v.users.UpdateStatus(ctx, args[0], s, strings.Join(args[1:], " "))
	} else if verb == "delete" {
		err = v.users.Delete(ctx, args[0])
	} else {
		return false, nil
	}
	if err == nil {
		v.Refresh()
	}
	return true, err
}

type collabView struct {
	*listview.Controller[domain.Collaboration, collabFilter]
	out  io.Writer
	emit func(func())
}

func (v *collabView) filter(name, value string) error {
	if name != "status" {
		return fmt.Errorf("collaborations can be filtered by status")
	}
	s := domain.CollaborationStatus(value)
	if value != app.FilterAll && !s.Valid() {
		return fmt.Errorf("unknown status %q", value)
	}
	v.SetFilter(collabFilter{Status: s})
	return nil
}

// action handles "show <id|row>", rows counting from 1 on the current page.
func (v *collabView) action(_ context.Context, verb string, args []string) (bool, error) {
	if verb != "show" || len(args) != 1 {
		return false, nil
	}
	items := v.Snapshot().Items
	pick := -1
	if n, err := strconv.Atoi(args[0]); err == nil && n >= 1 && n <= len(items) {
		pick = n - 1
	} else {
		for i, it := range items {
			if it.ID == args[0] {
				pick = i
				break
			}
		}
	}
	v.emit(func() {
		if pick < 0 {
			fmt.Fprintf(v.out, "no collaboration %q on this page\n", args[0])
			return
		}
		_ = app.RenderCollaboration(v.out, items[pick])
	})
	return true, nil
}

func (c *cli) browse(ctx context.Context, args []string, in io.Reader) error {
	if len(args) != 1 {
		return errUsage
	}
	var mu sync.Mutex
	emit := func(f func()) {
		mu.Lock()
		defer mu.Unlock()
		f()
	}

	var v view
	switch args[0] {
	case "users":
		v = &usersView{users: c.users, Controller: listview.New(listview.Config[domain.User, userFilter]{
			Name:     "users",
			PageSize: c.cfg.PageSize,
			Debounce: c.cfg.SearchDebounce,
			Filter:   userFilter{Type: app.FilterAll, Status: app.FilterAll},
			Fetch: func(ctx context.Context, k listview.Key[userFilter], size int) (listview.Result[domain.User], error) {
				p, err := c.users.List(ctx, domain.UsersQuery{
					Type: k.Filter.Type, Status: k.Filter.Status, Search: k.Search, Page: k.Page, PageSize: size,
				})
				if err != nil {
					return listview.Result[domain.User]{}, err
				}
				return listview.Result[domain.User]{Items: p.Users, Total: p.Total, TotalPages: p.TotalPages}, nil
			},
			ErrorMessage: func(err error) string { return app.ListErrorMessage(err, "Failed to load users") },
			OnChange: func(s listview.Snapshot[domain.User, userFilter]) {
				emit(func() {
					c.renderSnapshot(s.State, s.Err, s.Page, func() error { return app.RenderUsers(c.out, s.Items) })
				})
			},
		})}
	case "collaborations":
		v = &collabView{out: c.out, emit: emit, Controller: listview.New(listview.Config[domain.Collaboration, collabFilter]{
			Name:     "collaborations",
			PageSize: c.cfg.PageSize,
			Debounce: c.cfg.SearchDebounce,
			Filter:   collabFilter{Status: app.FilterAll},
			Fetch: func(ctx context.Context, k listview.Key[collabFilter], size int) (listview.Result[domain.Collaboration], error) {
				p, err := c.collab.List(ctx, domain.CollaborationsQuery{
					Page: k.Page, PageSize: size, Status: k.Filter.Status, Search: k.Search,
				})
				if err != nil {
					return listview.Result[domain.Collaboration]{}, err
				}
				return listview.Result[domain.Collaboration]{Items: p.Collaborations, Total: p.Total}, nil
			},
			ErrorMessage: func(err error) string { return app.ListErrorMessage(err, "Failed to load collaborations") },
			OnChange: func(s listview.Snapshot[domain.Collaboration, collabFilter]) {
				emit(func() {
					c.renderSnapshot(s.State, s.Err, s.Page, func() error { return app.RenderCollaborations(c.out, s.Items) })
				})
			},
		})}
	default:
		return errUsage
	}
	defer v.Close()

	emit(func() { fmt.Fprint(c.out, browseHelp) })
	v.Start()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}
		if quit := c.browseLine(ctx, v, line, emit); quit {
			return nil
		}
	}
}

// browseLine applies one prompt line and reports whether to quit.
func (c *cli) browseLine(ctx context.Context, v view, line string, emit func(func())) bool {
	if strings.HasPrefix(line, "/") {
		v.SetSearch(line[1:])
		return false
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	say := func(format string, a ...any) { emit(func() { fmt.Fprintf(c.out, format+"\n", a...) }) }

	switch fields[0] {
	case "q", "quit", "exit":
		return true
	case "?", "help":
		emit(func() { fmt.Fprint(c.out, browseHelp) })
	case "!":
		v.Submit()
	case "n":
		v.NextPage()
	case "p":
		v.PrevPage()
	case "r":
		v.Refresh()
	case "g":
		if len(fields) != 2 {
			say("usage: g <page>")
			break
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			say("page must be a number")
			break
		}
		v.SetPage(n)
	case "type", "status":
		if len(fields) != 2 {
			say("usage: %s <value>", fields[0])
			break
		}
		if err := v.filter(fields[0], fields[1]); err != nil {
			say("%v", err)
		}
	default:
		handled, err := v.action(ctx, fields[0], fields[1:])
		switch {
		case !handled:
			say("unknown command %q, type ? for help", fields[0])
		case err != nil:
			say("%s", app.ErrorMessage(err, "Action failed"))
		}
	}
	return false
}

func (c *cli) renderSnapshot(state listview.State, errMsg string, page listview.PageInfo, table func() error) {
	switch state {
	case listview.Loading:
		fmt.Fprintln(c.out, "Loading...")
	case listview.Errored:
		fmt.Fprintln(c.out, errMsg)
	case listview.Populated:
		if err := table(); err != nil {
			fmt.Fprintln(c.out, err)
			return
		}
		app.RenderPageFooter(c.out, page)
	}
}
