package listctl

import (
	"context"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/api/apitest"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/store"
)

type nopTokens struct{}

func (nopTokens) Get() string { return "" }
func (nopTokens) Set(string)  {}
func (nopTokens) Clear()      {}

func newController(t *testing.T, tasks int) (*Controller, *store.Store, *apitest.Backend) {
	t.Helper()
	b := apitest.New()
	for i := 0; i < tasks; i++ {
		b.AddTask("task", models.PriorityLow, models.StatusTodo)
	}
	st := store.New(context.Background(), api.New(b.Start(t)), nopTokens{})
	return New(st.Tasks, 0, time.Millisecond), st, b
}

func apply(t *testing.T, st *store.Store, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	require.True(t, st.Update(cmd()))
}

func listCalls(b *apitest.Backend) int {
	return b.Count(http.MethodGet, "/tasks")
}

func TestDefaults(t *testing.T) {
	c, _, _ := newController(t, 0)

	q := c.Params()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, models.SortCreatedAt, q.Sort)
	assert.Equal(t, models.OrderDesc, q.Order)
}

func TestNoFetchWithoutToken(t *testing.T) {
	c, _, b := newController(t, 0)

	assert.Nil(t, c.NextPage())
	assert.Nil(t, c.ApplyFilters())
	assert.Nil(t, c.Reload())
	assert.Zero(t, listCalls(b))
}

func TestSetTokenFetchesOnce(t *testing.T) {
	c, st, b := newController(t, 3)

	apply(t, st, c.SetToken("t1"))
	assert.Len(t, st.Tasks.Items, 3)
	assert.Nil(t, c.SetToken("t1"), "same credential, same query")

	apply(t, st, c.SetToken("t2-rotated"))
	assert.Equal(t, 2, listCalls(b))
}

func TestDebouncedSearchCommitsFinalKeystroke(t *testing.T) {
	c, st, b := newController(t, 25)
	apply(t, st, c.SetToken("t1"))
	apply(t, st, c.SetPage(3))
	require.Equal(t, 3, c.Page)

	var ticks []tea.Msg
	for _, s := range []string{"r", "re", "rep", "repo"} {
		ticks = append(ticks, c.SetSearch(s)())
	}
	assert.True(t, c.SearchPending())
	assert.Empty(t, c.Query, "nothing committed while typing")

	var fetches []tea.Cmd
	for _, tick := range ticks {
		cmd, handled := c.Update(tick)
		assert.True(t, handled)
		if cmd != nil {
			fetches = append(fetches, cmd)
		}
	}
	require.Len(t, fetches, 1)
	apply(t, st, fetches[0])

	assert.Equal(t, "repo", c.Query)
	assert.Equal(t, 1, c.Page)
	reqs := b.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, []string{"repo"}, last.Query["q"])
	assert.Equal(t, []string{"1"}, last.Query["page"])
	assert.Equal(t, 3, listCalls(b))
}

func TestSearchBackToSameValueDoesNotRefetch(t *testing.T) {
	c, st, b := newController(t, 1)
	apply(t, st, c.SetToken("t1"))

	c.SetSearch("x")
	cmd := c.SetSearch("")
	fetch, handled := c.Update(cmd())
	assert.True(t, handled)
	assert.Nil(t, fetch)
	assert.Equal(t, 1, listCalls(b))
}

func TestSubmitSearchSkipsDebounce(t *testing.T) {
	c, st, _ := newController(t, 1)
	apply(t, st, c.SetToken("t1"))

	tick := c.SetSearch(" report ")()
	apply(t, st, c.SubmitSearch())
	assert.Equal(t, "report", c.Query)

	fetch, handled := c.Update(tick)
	assert.True(t, handled)
	assert.Nil(t, fetch, "cancelled timer issues nothing")
}

func TestPagination(t *testing.T) {
	c, st, _ := newController(t, 25)
	apply(t, st, c.SetToken("t1"))
	require.Equal(t, 3, st.Tasks.TotalPages)

	apply(t, st, c.NextPage())
	assert.Equal(t, 2, c.Page)
	apply(t, st, c.SetPage(99))
	assert.Equal(t, 3, c.Page)
	assert.Nil(t, c.NextPage(), "already on the last page")

	apply(t, st, c.SetPage(0))
	assert.Equal(t, 1, c.Page)
	assert.Nil(t, c.PrevPage())
}

func TestPageSizeResetsPage(t *testing.T) {
	c, st, _ := newController(t, 25)
	apply(t, st, c.SetToken("t1"))
	apply(t, st, c.SetPage(2))

	apply(t, st, c.SetPageSize(20))
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, 20, c.PageSize)
	assert.Nil(t, c.SetPageSize(20))
	assert.Nil(t, c.SetPageSize(0))
}

func TestFilterDraftWithoutApplyDoesNotFetch(t *testing.T) {
	c, st, b := newController(t, 1)
	apply(t, st, c.SetToken("t1"))

	c.OpenFilters()
	assert.True(t, c.FilterOpen)
	c.EditDraft(func(f *models.Filters) { f.Status = models.StatusDone })
	c.CloseFilters()

	assert.False(t, c.FilterOpen)
	assert.Empty(t, c.Filters.Status)
	assert.Equal(t, 1, listCalls(b))

	c.OpenFilters()
	assert.Empty(t, c.Draft.Status, "reopening restages the active filters")
}

func TestApplyFilters(t *testing.T) {
	c, st, b := newController(t, 25)
	apply(t, st, c.SetToken("t1"))
	apply(t, st, c.SetPage(2))

	c.OpenFilters()
	c.EditDraft(func(f *models.Filters) {
		f.Priority = models.PriorityHigh
		f.Sort = models.SortDueDate
		f.Order = models.OrderAsc
		f.DueFrom = "2025-01-01"
	})
	apply(t, st, c.ApplyFilters())

	assert.False(t, c.FilterOpen)
	assert.Equal(t, 1, c.Page)
	reqs := b.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, []string{"high"}, last.Query["priority"])
	assert.Equal(t, []string{"dueDate"}, last.Query["sort"])
	assert.Equal(t, []string{"asc"}, last.Query["order"])
	assert.Equal(t, []string{"2025-01-01"}, last.Query["dueFrom"])

	c.OpenFilters()
	c.ClearDraft()
	assert.Equal(t, models.DefaultFilters(), c.Draft)
	apply(t, st, c.ApplyFilters())
	assert.Equal(t, models.DefaultFilters(), c.Filters)
}

func TestReloadAlwaysFetches(t *testing.T) {
	c, st, b := newController(t, 1)
	apply(t, st, c.SetToken("t1"))

	apply(t, st, c.Reload())
	apply(t, st, c.Reload())
	assert.Equal(t, 3, listCalls(b))
}

func TestExportQueryDropsPagination(t *testing.T) {
	c, st, _ := newController(t, 25)
	apply(t, st, c.SetToken("t1"))
	apply(t, st, c.SetPage(2))
	c.SearchInput = "x"
	apply(t, st, c.SubmitSearch())

	q := c.ExportQuery()
	assert.Zero(t, q.Page)
	assert.Zero(t, q.PageSize)
	assert.Equal(t, "x", q.Query)
	assert.NotContains(t, q.ExportValues(), "page")
}

func TestLogoutResetsFetchState(t *testing.T) {
	c, st, b := newController(t, 1)
	apply(t, st, c.SetToken("t1"))

	assert.Nil(t, c.SetToken(""))
	apply(t, st, c.SetToken("t1"))
	assert.Equal(t, 2, listCalls(b))
}
