// Package dashboard holds the state of the loans dashboard and orchestrates
// filter debouncing, request building and page fetching. It is driven by the
// bubbletea event loop: every mutation happens inside a method call or Update,
// and the only asynchronous work is returned to the caller as tea.Cmd values.
package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"loandash/internal/debounce"
	"loandash/internal/logger"
	"loandash/internal/models"
	"loandash/internal/query"
)

// Fetcher loads one page of loans. *client.Client implements it.
type Fetcher interface {
	FetchPage(ctx context.Context, d query.Descriptor) (models.Page, error)
}

// Sink receives every successfully loaded page of loans.
// *viewport.Virtualizer[models.Loan] implements it.
type Sink interface {
	SetItems(loans []models.Loan) bool
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

const (
	DefaultPageSize = 100
	DefaultDebounce = 500 * time.Millisecond
)

// FilterSettledMsg fires when a filter edit's quiet period expires.
type FilterSettledMsg struct {
	Gen uint64
}

// PageLoadedMsg carries the outcome of the fetch issued with sequence Seq.
type PageLoadedMsg struct {
	Seq        uint64
	Descriptor query.Descriptor
	Page       models.Page
	Err        error
}

// Snapshot is a read-only view of the controller state.
type Snapshot struct {
	Status        Status
	Page          int
	PageSize      int
	Filter        models.Filter
	StableFilter  models.Filter
	FilterPending bool
	Loans         []models.Loan
	Total         int
	Err           string
	Seq           uint64
}

// TickFunc schedules fn after d. tea.Tick is the production implementation.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

type Controller struct {
	fetcher  Fetcher
	sink     Sink
	delay    time.Duration
	tick     TickFunc
	log      logrus.FieldLogger
	pageSize int

	page    int
	filter  models.Filter
	filters *debounce.Holder[models.Filter]
	status  Status
	loans   []models.Loan
	total   int
	err     string
	seq     uint64
	cancel  context.CancelFunc

	subscribers map[int]func(Snapshot)
	nextSub     int
}

type Option func(*Controller)

func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = min(n, models.MaxPageSize)
		}
	}
}

func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

func WithTick(fn TickFunc) Option {
	return func(c *Controller) { c.tick = fn }
}

func WithSink(s Sink) Option {
	return func(c *Controller) { c.sink = s }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = l }
}

func New(fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:     fetcher,
		delay:       DefaultDebounce,
		tick:        tea.Tick,
		log:         logger.Log,
		pageSize:    DefaultPageSize,
		page:        1,
		filters:     debounce.NewHolder(models.Filter{}),
		subscribers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init issues the first fetch with the empty filter.
func (c *Controller) Init() tea.Cmd {
	return c.fetch()
}

// Update applies controller messages. Other messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FilterSettledMsg:
		return c.settle(msg.Gen)
	case PageLoadedMsg:
		c.apply(msg)
	}
	return nil
}

func (c *Controller) SetStatus(st *models.Status) tea.Cmd {
	return c.editFilter(func(f *models.Filter) { f.Status = st })
}

func (c *Controller) SetMinAmount(v *int) tea.Cmd {
	return c.editFilter(func(f *models.Filter) { f.MinAmount = v })
}

func (c *Controller) SetMaxAmount(v *int) tea.Cmd {
	return c.editFilter(func(f *models.Filter) { f.MaxAmount = v })
}

func (c *Controller) SetApplicantName(name string) tea.Cmd {
	return c.editFilter(func(f *models.Filter) { f.ApplicantName = name })
}

func (c *Controller) ClearFilters() tea.Cmd {
	return c.editFilter(func(f *models.Filter) { *f = models.Filter{} })
}

// editFilter applies an edit, resets the cursor to the first page and
// restarts the debounce window. Leaving page 1 is itself a trigger and fetches
// straight away with the filters that are already stable.
func (c *Controller) editFilter(edit func(*models.Filter)) tea.Cmd {
	next := c.filter.Clone()
	edit(&next)
	if next.Equal(c.filter) {
		return nil
	}
	c.filter = next

	gen := c.filters.Set(next.Clone())
	cmds := []tea.Cmd{
		c.tick(c.delay, func(time.Time) tea.Msg { return FilterSettledMsg{Gen: gen} }),
	}
	if c.page != 1 {
		c.page = 1
		cmds = append(cmds, c.fetch())
	} else {
		c.notify()
	}
	return tea.Batch(cmds...)
}

func (c *Controller) settle(gen uint64) tea.Cmd {
	prev, _ := c.filters.Stable()
	stable, ok := c.filters.Settle(gen)
	if !ok {
		return nil
	}
	if stable.Equal(prev) {
		c.notify()
		return nil
	}
	return c.fetch()
}

func (c *Controller) NextPage() tea.Cmd {
	if !c.CanNext() {
		return nil
	}
	c.page++
	return c.fetch()
}

func (c *Controller) PrevPage() tea.Cmd {
	if !c.CanPrev() {
		return nil
	}
	c.page--
	return c.fetch()
}

// GoToPage jumps to page n (1-indexed).
func (c *Controller) GoToPage(n int) tea.Cmd {
	if n < 1 || n == c.page {
		return nil
	}
	c.page = n
	return c.fetch()
}

func (c *Controller) SetPageSize(n int) tea.Cmd {
	n = min(n, models.MaxPageSize)
	if n < 1 || n == c.pageSize {
		return nil
	}
	c.pageSize = n
	c.page = 1
	return c.fetch()
}

func (c *Controller) Refresh() tea.Cmd {
	return c.fetch()
}

func (c *Controller) CanPrev() bool {
	return c.page > 1 && c.status != StatusLoading
}

// CanNext is true when the current page is full and more matches remain.
func (c *Controller) CanNext() bool {
	return c.status != StatusLoading &&
		len(c.loans) >= c.pageSize &&
		c.page*c.pageSize < c.total
}

// PageCount is the number of pages the last known total spans.
func (c *Controller) PageCount() int {
	if c.total == 0 {
		return 1
	}
	return (c.total + c.pageSize - 1) / c.pageSize
}

// Descriptor is the request the current state maps to.
func (c *Controller) Descriptor() query.Descriptor {
	stable, _ := c.filters.Stable()
	return query.Build(models.Cursor{Page: c.page, PageSize: c.pageSize}, stable)
}

// fetch enters the loading state and returns the command performing the
// request. Only the response carrying the latest sequence number is applied.
func (c *Controller) fetch() tea.Cmd {
	c.seq++
	seq := c.seq
	d := c.Descriptor()

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.status = StatusLoading
	c.err = ""
	c.log.WithFields(logrus.Fields{"seq": seq, "query": d.Encode()}).Debug("Fetching loans")
	c.notify()

	fetcher := c.fetcher
	return func() tea.Msg {
		page, err := fetcher.FetchPage(ctx, d)
		return PageLoadedMsg{Seq: seq, Descriptor: d, Page: page, Err: err}
	}
}

func (c *Controller) apply(msg PageLoadedMsg) {
	if msg.Seq != c.seq {
		c.log.WithFields(logrus.Fields{"seq": msg.Seq, "latest": c.seq}).Debug("Discarding stale response")
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if msg.Err != nil {
		c.status = StatusError
		c.err = msg.Err.Error()
		c.log.WithError(msg.Err).WithField("query", msg.Descriptor.Encode()).Warn("Failed to fetch loans")
		c.notify()
		return
	}

	c.status = StatusSuccess
	c.loans = msg.Page.Loans
	c.total = msg.Page.Total
	if c.sink != nil {
		c.sink.SetItems(c.loans)
	}
	c.notify()
}

// Subscribe registers fn to receive a snapshot after every state change. The
// returned function removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	return func() { delete(c.subscribers, id) }
}

func (c *Controller) notify() {
	if len(c.subscribers) == 0 {
		return
	}
	s := c.Snapshot()
	for _, fn := range c.subscribers {
		fn(s)
	}
}

func (c *Controller) Snapshot() Snapshot {
	stable, _ := c.filters.Stable()
	return Snapshot{
		Status:        c.status,
		Page:          c.page,
		PageSize:      c.pageSize,
		Filter:        c.filter.Clone(),
		StableFilter:  stable.Clone(),
		FilterPending: c.filters.Pending(),
		Loans:         c.loans,
		Total:         c.total,
		Err:           c.err,
		Seq:           c.seq,
	}
}
