// Package dashboard holds the per-operator view state of the list pages.
//
// A Controller owns one list view: its filter/sort/page query, the rows and
// KPIs of the last load, and the load state. Loads fetch KPIs and the list
// page concurrently and apply all-or-nothing. Every load carries a
// generation number and only the most recently issued load may write its
// result, so a slow response can never overwrite a newer one.
package dashboard

import (
	"context"
	"log"
	"sync"

	apperrors "farmops/internal/errors"
	"farmops/internal/model"
	"farmops/internal/pagination"

	"golang.org/x/sync/errgroup"
)

// Query is the filter, sort and page state of a list view.
type Query = model.ListQuery

// State is the load state of a Controller.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Source fetches the KPIs and list pages a Controller shows.
type Source[K any, R any] interface {
	KPIs(ctx context.Context, r model.DateRange) (*K, error)
	List(ctx context.Context, q Query) (*model.Page[R], error)
}

// Filters are the operator-editable, non-page fields of a Query.
type Filters struct {
	Search    string
	Status    string
	Priority  string
	PartyType string
	StartDate string
	EndDate   string
	SortBy    string
	SortOrder string
}

// FiltersOf extracts the filter fields of q.
func FiltersOf(q Query) Filters {
	return Filters{
		Search:    q.Search,
		Status:    q.Status,
		Priority:  q.Priority,
		PartyType: q.PartyType,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}
}

func (f Filters) apply(q Query) Query {
	q.Search = f.Search
	q.Status = f.Status
	q.Priority = f.Priority
	q.PartyType = f.PartyType
	q.StartDate = f.StartDate
	q.EndDate = f.EndDate
	q.SortBy = f.SortBy
	q.SortOrder = f.SortOrder
	return q.Normalized()
}

// Validator checks a query beyond the date and sort checks every query gets,
// typically enum values specific to one list.
type Validator func(q Query) error

// Snapshot is an immutable copy of a Controller's view state.
type Snapshot[K any, R any] struct {
	State      State
	Query      Query
	Rows       []R
	KPIs       *K
	Total      int
	TotalPages int
	Error      string
	Pager      pagination.Pager
}

// Controller is the state machine behind one list page.
type Controller[K any, R any] struct {
	name     string
	src      Source[K, R]
	validate Validator
	defaults Query

	mu         sync.Mutex
	query      Query
	state      State
	rows       []R
	kpis       *K
	total      int
	totalPages int
	errMsg     string
	generation uint64

	// onLoad, when set, observes every applied load result.
	onLoad func(name string, err error)
}

// NewController creates an idle controller showing defaults. name is used in
// logs and error fallbacks ("complaints", "payouts").
func NewController[K any, R any](name string, src Source[K, R], defaults Query, validate Validator) *Controller[K, R] {
	if defaults.Page < 1 {
		defaults.Page = 1
	}
	return &Controller[K, R]{
		name:       name,
		src:        src,
		validate:   validate,
		defaults:   defaults,
		query:      defaults,
		state:      StateIdle,
		rows:       []R{},
		totalPages: 1,
	}
}

// OnLoad registers a hook called after each applied (non-stale) load.
func (c *Controller[K, R]) OnLoad(fn func(name string, err error)) {
	c.mu.Lock()
	c.onLoad = fn
	c.mu.Unlock()
}

// Snapshot returns a copy of the current view state.
func (c *Controller[K, R]) Snapshot() Snapshot[K, R] {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]R, len(c.rows))
	copy(rows, c.rows)
	var kpis *K
	if c.kpis != nil {
		k := *c.kpis
		kpis = &k
	}
	return Snapshot[K, R]{
		State:      c.state,
		Query:      c.query,
		Rows:       rows,
		KPIs:       kpis,
		Total:      c.total,
		TotalPages: c.totalPages,
		Error:      c.errMsg,
		Pager:      pagination.NewPager(c.query.Page, c.totalPages),
	}
}

// Query returns the current query.
func (c *Controller[K, R]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Defaults returns the query Reset restores.
func (c *Controller[K, R]) Defaults() Query { return c.defaults }

// Load fetches the current query. It is also the refresh operation.
func (c *Controller[K, R]) Load(ctx context.Context) error {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	return c.load(ctx, q)
}

// Refresh reloads the current query; used after create/update.
func (c *Controller[K, R]) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// SetFilters replaces every filter field, resets to page 1 and reloads.
// An invalid query is rejected with a ValidationError before any request
// and leaves the view untouched.
func (c *Controller[K, R]) SetFilters(ctx context.Context, f Filters) error {
	c.mu.Lock()
	q := f.apply(c.query)
	q.Page = 1
	c.mu.Unlock()

	if err := c.check(q); err != nil {
		return err
	}
	return c.load(ctx, q)
}

// SetPage moves to page, clamped to [1, TotalPages], and reloads.
func (c *Controller[K, R]) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if page < 1 {
		page = 1
	}
	if page > c.totalPages {
		page = c.totalPages
	}
	q := c.query
	q.Page = page
	c.mu.Unlock()
	return c.load(ctx, q)
}

// Reset restores the default query and reloads exactly once.
func (c *Controller[K, R]) Reset(ctx context.Context) error {
	return c.load(ctx, c.defaults)
}

func (c *Controller[K, R]) check(q Query) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if c.validate != nil {
		return c.validate(q)
	}
	return nil
}

// load issues one KPI+list batch for q and applies it if it is still the
// latest batch when it settles.
func (c *Controller[K, R]) load(ctx context.Context, q Query) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.query = q
	c.state = StateLoading
	c.mu.Unlock()

	var (
		kpis *K
		page *model.Page[R]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		kpis, err = c.src.KPIs(gctx, q.Range())
		return err
	})
	g.Go(func() error {
		var err error
		page, err = c.src.List(gctx, q)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		log.Printf("  → Discarded stale %s load (generation %d)", c.name, gen)
		return nil
	}

	if err != nil {
		c.state = StateErrored
		c.rows = []R{}
		c.kpis = nil
		c.total = 0
		c.totalPages = 1
		c.errMsg = apperrors.Message(err, "Failed to load "+c.name)
	} else {
		c.state = StateLoaded
		c.rows = page.Items
		if c.rows == nil {
			c.rows = []R{}
		}
		c.kpis = kpis
		c.total = page.Total
		c.totalPages = page.TotalPages
		if c.totalPages < 1 {
			c.totalPages = 1
		}
		c.errMsg = ""
	}
	hook := c.onLoad
	c.mu.Unlock()

	if err != nil {
		log.Printf("  ✗ Failed to load %s: %v", c.name, err)
	}
	if hook != nil {
		hook(c.name, err)
	}
	return err
}
