// Package listview coordinates the search box, filters and page number of a
// paginated screen into one fetch per settled query.
package listview

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"vayada_admin/internal/adapters/observability"
)

type State int

const (
	Idle State = iota
	Loading
	Populated
	Errored
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Populated:
		return "populated"
	case Errored:
		return "errored"
	}
	return "idle"
}

// Key is everything a fetch depends on. F is the view's filter record.
type Key[F comparable] struct {
	Page   int
	Filter F
	Search string
}

type Result[T any] struct {
	Items      []T
	Total      int
	TotalPages int // 0 when the backend did not send one
}

type Fetcher[T any, F comparable] func(ctx context.Context, k Key[F], pageSize int) (Result[T], error)

// Snapshot is a consistent copy of the view state. Items and Page always come
// from the same response.
type Snapshot[T any, F comparable] struct {
	State     State
	Key       Key[F]
	RawSearch string
	Items     []T
	Page      PageInfo
	Err       string

	version uint64
}

type Config[T any, F comparable] struct {
	Name     string // metrics label
	PageSize int
	Debounce time.Duration // zero commits search immediately
	Clock    Clock
	Filter   F // initial filter
	Fetch    Fetcher[T, F]
	// ErrorMessage renders a failed fetch. Defaults to err.Error().
	ErrorMessage func(error) string
	OnChange     func(Snapshot[T, F])
}

type Controller[T any, F comparable] struct {
	cfg  Config[T, F]
	base context.Context
	stop context.CancelFunc

	mu        sync.Mutex
	started   bool
	closed    bool
	want      Key[F]
	last      Key[F]
	fetched   bool
	raw       string
	timer     Timer
	searchGen uint64
	seq       uint64
	cancel    context.CancelFunc

	state      State
	items      []T
	total      int
	totalPages int
	totalsFor  Key[F] // key whose response set total and totalPages
	shownPage  int
	errMsg     string
	version    uint64

	notifyMu sync.Mutex
	notified uint64

	wg sync.WaitGroup
}

func New[T any, F comparable](cfg Config[T, F]) *Controller[T, F] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	if cfg.Name == "" {
		cfg.Name = "list"
	}
	if cfg.ErrorMessage == nil {
		cfg.ErrorMessage = func(err error) string { return err.Error() }
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Controller[T, F]{
		cfg:       cfg,
		base:      ctx,
		stop:      stop,
		want:      Key[F]{Page: 1, Filter: cfg.Filter},
		shownPage: 1,
	}
}

// Start issues the initial fetch. Inputs set before Start only shape it.
func (c *Controller[T, F]) Start() {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	snap, ok := c.launchLocked(true)
	c.mu.Unlock()
	if ok {
		c.notify(snap)
	}
}

// SetSearch records raw input. It reaches the query only after the debounce
// interval passes with no further call.
func (c *Controller[T, F]) SetSearch(raw string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.raw = raw
	c.searchGen++
	gen := c.searchGen
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cfg.Debounce <= 0 {
		snap, ok := c.commitLocked()
		c.mu.Unlock()
		if ok {
			c.notify(snap)
		}
		return
	}
	c.timer = c.cfg.Clock.AfterFunc(c.cfg.Debounce, func() { c.debounced(gen) })
	c.mu.Unlock()
}

func (c *Controller[T, F]) debounced(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.searchGen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	snap, ok := c.commitLocked()
	c.mu.Unlock()
	if ok {
		c.notify(snap)
	}
}

// Submit commits the raw search now, skipping the debounce.
func (c *Controller[T, F]) Submit() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.searchGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	snap, ok := c.commitLocked()
	c.mu.Unlock()
	if ok {
		c.notify(snap)
	}
}

// commitLocked moves the raw search into the key. A changed search resets
// the page in the same step so only one fetch follows.
func (c *Controller[T, F]) commitLocked() (Snapshot[T, F], bool) {
	s := strings.TrimSpace(c.raw)
	if s == c.want.Search {
		return Snapshot[T, F]{}, false
	}
	c.want.Search = s
	c.want.Page = 1
	return c.launchLocked(false)
}

// SetFilter replaces the filter record and resets to page 1.
func (c *Controller[T, F]) SetFilter(f F) {
	c.mu.Lock()
	if c.closed || f == c.want.Filter {
		c.mu.Unlock()
		return
	}
	c.want.Filter = f
	c.want.Page = 1
	snap, ok := c.launchLocked(false)
	c.mu.Unlock()
	if ok {
		c.notify(snap)
	}
}

// SetPage moves to page n. It is clamped to [1, TotalPages] only when the
// known total was fetched for the current filter and search.
func (c *Controller[T, F]) SetPage(n int) {
	c.mu.Lock()
	if n < 1 {
		n = 1
	}
	if c.totalPages > 0 && n > c.totalPages &&
		c.totalsFor.Filter == c.want.Filter && c.totalsFor.Search == c.want.Search {
		n = c.totalPages
	}
	if c.closed || n == c.want.Page {
		c.mu.Unlock()
		return
	}
	c.want.Page = n
	snap, ok := c.launchLocked(false)
	c.mu.Unlock()
	if ok {
		c.notify(snap)
	}
}

func (c *Controller[T, F]) NextPage() {
	c.mu.Lock()
	p := c.want.Page
	c.mu.Unlock()
	c.SetPage(p + 1)
}

func (c *Controller[T, F]) PrevPage() {
	c.mu.Lock()
	p := c.want.Page
	c.mu.Unlock()
	c.SetPage(p - 1)
}

// Refresh refetches the current key, e.g. after a mutation.
func (c *Controller[T, F]) Refresh() {
	c.mu.Lock()
	if c.closed || !c.started {
		c.mu.Unlock()
		return
	}
	snap, ok := c.launchLocked(true)
	c.mu.Unlock()
	if ok {
		c.notify(snap)
	}
}

// launchLocked starts a fetch for c.want if it differs from the last fetched
// key or force is set. Any fetch still in flight is superseded.
func (c *Controller[T, F]) launchLocked(force bool) (Snapshot[T, F], bool) {
	if !c.started || c.closed {
		return Snapshot[T, F]{}, false
	}
	if !force && c.fetched && c.want == c.last {
		return Snapshot[T, F]{}, false
	}
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	c.last = c.want
	c.fetched = true
	c.state = Loading

	key := c.want
	c.wg.Add(1)
	go c.run(ctx, cancel, seq, key)
	return c.snapshotLocked(), true
}

func (c *Controller[T, F]) run(ctx context.Context, cancel context.CancelFunc, seq uint64, key Key[F]) {
	defer c.wg.Done()
	defer cancel()
	start := time.Now()
	res, err := c.cfg.Fetch(ctx, key, c.cfg.PageSize)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		observability.ObserveListView(c.cfg.Name, "stale")
		return
	}
	c.cancel = nil
	if err != nil {
		c.items, c.total, c.totalPages = nil, 0, 0
		c.errMsg = c.cfg.ErrorMessage(err)
		c.state = Errored
	} else {
		c.items, c.total, c.totalPages = res.Items, res.Total, res.TotalPages
		c.errMsg = ""
		c.state = Populated
	}
	c.shownPage = key.Page
	c.totalsFor = key
	if c.totalPages <= 0 && c.total > 0 {
		c.totalPages = NewPageInfo(key.Page, c.cfg.PageSize, c.total, 0).TotalPages
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	observability.ObserveListView(c.cfg.Name, snap.State.String())
	ev := log.Debug().Str("view", c.cfg.Name).Int("page", key.Page).Str("search", key.Search).
		Dur("took", time.Since(start))
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("list fetch settled")
	c.notify(snap)
}

// snapshotLocked captures the state for a notification; each call gets a
// new version.
func (c *Controller[T, F]) snapshotLocked() Snapshot[T, F] {
	c.version++
	return c.viewLocked()
}

func (c *Controller[T, F]) viewLocked() Snapshot[T, F] {
	return Snapshot[T, F]{
		State:     c.state,
		Key:       c.want,
		RawSearch: c.raw,
		Items:     c.items,
		Page:      NewPageInfo(c.shownPage, c.cfg.PageSize, c.total, c.totalPages),
		Err:       c.errMsg,
		version:   c.version,
	}
}

// notify delivers snap unless a newer snapshot was already delivered.
func (c *Controller[T, F]) notify(snap Snapshot[T, F]) {
	if c.cfg.OnChange == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if snap.version <= c.notified {
		return
	}
	c.notified = snap.version
	c.cfg.OnChange(snap)
}

// Snapshot returns the current state.
func (c *Controller[T, F]) Snapshot() Snapshot[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Wait blocks until every launched fetch has returned.
func (c *Controller[T, F]) Wait() { c.wg.Wait() }

// Close cancels the pending debounce and any in-flight fetch. Late results
// are discarded.
func (c *Controller[T, F]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.stop()
	c.wg.Wait()
}
