// Package listctl owns the task list's query state: pagination, debounced
// search and staged filters. It refetches only when the effective query
// or credential actually changes.
package listctl

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdesk/internal/debounce"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/store"
)

const (
	DefaultDelay    = 400 * time.Millisecond
	DefaultPageSize = 10
)

// Controller is driven from the event loop only
type Controller struct {
	tasks *store.TasksSlice
	timer *debounce.Timer

	Page        int
	PageSize    int
	SearchInput string
	Query       string
	Filters     models.Filters
	Draft       models.Filters
	FilterOpen  bool

	token     string
	fetched   bool
	lastQuery models.ListQuery
	lastToken string
}

// New returns a controller on page 1. Zero values pick the defaults.
func New(tasks *store.TasksSlice, pageSize int, delay time.Duration) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Controller{
		tasks:    tasks,
		timer:    debounce.New(delay),
		Page:     1,
		PageSize: pageSize,
		Filters:  models.DefaultFilters(),
		Draft:    models.DefaultFilters(),
	}
}

// Params is the query the list is (or will be) showing
func (c *Controller) Params() models.ListQuery {
	return models.ListQuery{
		Page:     c.Page,
		PageSize: c.PageSize,
		Query:    c.Query,
		Filters:  c.Filters,
	}
}

// ExportQuery is Params without pagination
func (c *Controller) ExportQuery() models.ListQuery {
	return models.ListQuery{Query: c.Query, Filters: c.Filters}
}

// Token is the credential the list is fetched with
func (c *Controller) Token() string { return c.token }

// SearchPending reports whether a typed search has not been committed yet
func (c *Controller) SearchPending() bool {
	return c.timer.State() == debounce.Pending
}

// sync fetches when the query or credential differs from the last fetch
func (c *Controller) sync() tea.Cmd {
	q := c.Params()
	if c.token == "" {
		return nil
	}
	if c.fetched && q == c.lastQuery && c.token == c.lastToken {
		return nil
	}
	return c.fetch(q)
}

func (c *Controller) fetch(q models.ListQuery) tea.Cmd {
	c.fetched = true
	c.lastQuery = q
	c.lastToken = c.token
	return c.tasks.Fetch(c.token, q)
}

// Reload refetches the current query unconditionally
func (c *Controller) Reload() tea.Cmd {
	if c.token == "" {
		return nil
	}
	return c.fetch(c.Params())
}

// SetToken updates the credential; the first one triggers a fetch
func (c *Controller) SetToken(token string) tea.Cmd {
	c.token = token
	if token == "" {
		c.fetched = false
		c.timer.Cancel()
	}
	return c.sync()
}

// SetSearch records typed input and restarts the quiet period
func (c *Controller) SetSearch(s string) tea.Cmd {
	c.SearchInput = s
	return c.timer.Start()
}

// SubmitSearch commits the typed input immediately
func (c *Controller) SubmitSearch() tea.Cmd {
	c.timer.Cancel()
	c.commitSearch()
	return c.sync()
}

func (c *Controller) commitSearch() {
	q := strings.TrimSpace(c.SearchInput)
	if q != c.Query {
		c.Query = q
		c.Page = 1
	}
}

// Update handles the search timer and reports whether msg was consumed
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	m, ok := msg.(debounce.FiredMsg)
	if !ok || m.ID != c.timer.ID() {
		return nil, false
	}
	if !c.timer.Fire(m) {
		return nil, true
	}
	c.commitSearch()
	return c.sync(), true
}

// SetPage moves to page n, clamped to the known page range
func (c *Controller) SetPage(n int) tea.Cmd {
	if total := c.tasks.TotalPages; total > 0 && n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	c.Page = n
	return c.sync()
}

func (c *Controller) NextPage() tea.Cmd { return c.SetPage(c.Page + 1) }

func (c *Controller) PrevPage() tea.Cmd { return c.SetPage(c.Page - 1) }

// SetPageSize changes the page size and returns to page 1
func (c *Controller) SetPageSize(n int) tea.Cmd {
	if n <= 0 || n == c.PageSize {
		return nil
	}
	c.PageSize = n
	c.Page = 1
	return c.sync()
}

// OpenFilters stages a copy of the active filters for editing
func (c *Controller) OpenFilters() {
	c.Draft = c.Filters
	c.FilterOpen = true
}

// EditDraft changes the staged filters without fetching
func (c *Controller) EditDraft(fn func(*models.Filters)) {
	fn(&c.Draft)
}

// ClearDraft resets the staged filters to the defaults
func (c *Controller) ClearDraft() {
	c.Draft = models.DefaultFilters()
}

// CloseFilters discards the staged filters
func (c *Controller) CloseFilters() {
	c.FilterOpen = false
}

// ApplyFilters makes the staged filters active and returns to page 1
func (c *Controller) ApplyFilters() tea.Cmd {
	c.Filters = c.Draft
	c.FilterOpen = false
	c.Page = 1
	return c.sync()
}
