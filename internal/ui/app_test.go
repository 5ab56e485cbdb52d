package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/api/apitest"
	"github.com/tgienger/taskdesk/internal/db"
	"github.com/tgienger/taskdesk/internal/listctl"
	"github.com/tgienger/taskdesk/internal/session"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/suggest"
	"github.com/tgienger/taskdesk/internal/ui/views"
	"github.com/tgienger/taskdesk/internal/validate"
)

func newApp(t *testing.T) (*App, *db.DB, *apitest.Backend) {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	b := apitest.New()
	client := api.New(b.Start(t))
	ctx := context.Background()
	st := store.New(ctx, client, session.NewStore(database, dir))

	deps := &views.Deps{
		Ctx:       ctx,
		Store:     st,
		List:      listctl.New(st.Tasks, 0, 0),
		Suggest:   suggest.New(ctx, st.Suggestion, client, suggest.DefaultDelay),
		Exporter:  client,
		ExportDir: dir,
		Location:  time.UTC,
	}
	return NewApp(deps, database), database, b
}

func login(t *testing.T, a *App, password string) {
	t.Helper()
	cmd := a.deps.Store.Auth.Login(validate.LoginInput{Email: "a@b.com", Password: password})
	require.NotNil(t, cmd)
	a.Update(cmd())
}

func TestStartsOnLoginWithoutSession(t *testing.T) {
	a, _, _ := newApp(t)
	a.Init()
	assert.Equal(t, views.RouteLogin, a.Route())
}

func TestLoginNavigatesToDashboard(t *testing.T) {
	a, database, _ := newApp(t)
	a.Init()

	login(t, a, "secret123")

	assert.Equal(t, views.RouteDashboard, a.Route())
	assert.Equal(t, "t1", a.deps.List.Token())

	last, err := database.GetSetting(LastViewKey)
	require.NoError(t, err)
	assert.Equal(t, "dashboard", last)

	token, err := database.GetSetting(session.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
}

func TestFailedLoginStaysOnLogin(t *testing.T) {
	a, database, _ := newApp(t)
	a.Init()

	login(t, a, "wrong-password")

	assert.Equal(t, views.RouteLogin, a.Route())
	assert.Equal(t, store.Failed, a.deps.Store.Auth.Op.Status)
	assert.Equal(t, "Invalid credentials", a.deps.Store.Auth.Op.Err)

	last, err := database.GetSetting(LastViewKey)
	require.NoError(t, err)
	assert.Empty(t, last)
}

func TestProtectedRoutesRedirect(t *testing.T) {
	a, _, _ := newApp(t)
	a.Init()

	a.Update(views.NavigateMsg{To: views.RouteTasks})
	assert.Equal(t, views.RouteLogin, a.Route())

	login(t, a, "secret123")
	a.Update(views.NavigateMsg{To: views.RouteLogin})
	assert.Equal(t, views.RouteDashboard, a.Route())

	a.Update(views.NavigateMsg{To: views.RouteInvites})
	assert.Equal(t, views.RouteInvites, a.Route())
}

func TestRestoresLastView(t *testing.T) {
	a, database, _ := newApp(t)
	login(t, a, "secret123")

	require.NoError(t, database.SetSetting(LastViewKey, "tasks"))
	a.Init()
	assert.Equal(t, views.RouteTasks, a.Route())

	require.NoError(t, database.SetSetting(LastViewKey, "bogus"))
	a.Init()
	assert.Equal(t, views.RouteDashboard, a.Route())
}

func TestLogoutReturnsToLogin(t *testing.T) {
	a, database, b := newApp(t)
	login(t, a, "secret123")

	_, cmd := a.Update(views.LogoutRequested{})
	require.NotNil(t, cmd)
	a.Update(cmd())

	assert.Equal(t, views.RouteLogin, a.Route())
	assert.False(t, a.deps.Store.Auth.Authenticated())
	assert.Empty(t, a.deps.List.Token())
	assert.Equal(t, 1, b.Count("POST", "/auth/logout"))

	token, err := database.GetSetting(session.TokenKey)
	require.NoError(t, err)
	assert.Empty(t, token)
}
