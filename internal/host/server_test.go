package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gauthierbraillon/winelocals/internal/account"
	"github.com/gauthierbraillon/winelocals/internal/catalog"
	"github.com/gauthierbraillon/winelocals/internal/display"
	"github.com/gauthierbraillon/winelocals/internal/feed"
	"github.com/gauthierbraillon/winelocals/internal/media"
	"github.com/gauthierbraillon/winelocals/internal/player"
	"github.com/gauthierbraillon/winelocals/internal/session"
	"github.com/gauthierbraillon/winelocals/internal/shell"
)

type fakeCatalog struct {
	items      []catalog.FeedItem
	regions    []string
	regionsErr error
	products   []catalog.MapProduct
}

func (f *fakeCatalog) FetchFeedItems(context.Context) []catalog.FeedItem { return f.items }

func (f *fakeCatalog) Regions(context.Context) ([]string, error) {
	return f.regions, f.regionsErr
}

func (f *fakeCatalog) MapProducts(context.Context) ([]catalog.MapProduct, error) {
	return f.products, nil
}

type fakeAccounts struct {
	mu          sync.Mutex
	orders      []account.Order
	ordersErr   error
	vouchers    []account.Voucher
	passwordErr error
	calls       []string
}

func (f *fakeAccounts) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAccounts) Login(_ context.Context, identifier, password string) (session.Session, error) {
	f.record("login")
	if identifier == "" || password == "" {
		return session.Session{}, account.ErrMissingField
	}
	if password != "secret" {
		return session.Session{}, account.ErrInvalidCredentials
	}
	return session.Session{User: session.User{ID: 7, Username: "ana souza", Email: identifier}, JWT: "jwt-7"}, nil
}

func (f *fakeAccounts) Orders(_ context.Context, jwt string, typ account.OrderType) ([]account.Order, error) {
	f.record("orders:" + string(typ) + ":" + jwt)
	return f.orders, f.ordersErr
}

func (f *fakeAccounts) Vouchers(_ context.Context, jwt string) ([]account.Voucher, error) {
	f.record("vouchers:" + jwt)
	return f.vouchers, nil
}

func (f *fakeAccounts) ChangePassword(_ context.Context, jwt string, _ account.PasswordChange) error {
	f.record("password:" + jwt)
	return f.passwordErr
}

type memSessions struct {
	mu  sync.Mutex
	cur *session.Session
}

func (m *memSessions) Current() (session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return session.Session{}, session.ErrNoSession
	}
	return *m.cur, nil
}

func (m *memSessions) Update(sess session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = &sess
	return nil
}

func (m *memSessions) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = nil
	return nil
}

func streamingItem(id string) catalog.FeedItem {
	return catalog.FeedItem{
		ID:          id,
		Slug:        "passeio-" + id,
		DisplayName: "Passeio " + id,
		Media:       []media.Descriptor{{StreamingAssetID: "asset-" + id}},
	}
}

type fixture struct {
	srv      *Server
	catalog  *fakeCatalog
	accounts *fakeAccounts
	sessions *memSessions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		catalog: &fakeCatalog{
			items: []catalog.FeedItem{streamingItem("1"), streamingItem("2"), streamingItem("3")},
		},
		accounts: &fakeAccounts{},
		sessions: &memSessions{},
	}
	srv, err := New(Config{
		App:  shell.DefaultAppConfig(),
		Feed: feed.Options{Cooldown: -1},
	}, Deps{Catalog: f.catalog, Accounts: f.accounts, Sessions: f.sessions})
	require.NoError(t, err)
	f.srv = srv
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)
}

func TestFeed_MountStartsFirstItem(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/feed", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[feedResponse](t, rec)
	assert.Equal(t, shell.StatusReady, resp.Status)
	assert.Equal(t, 0, resp.State.ActiveIndex)
	assert.Equal(t, 3, resp.State.Count)
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, "https://www.wine-locals.com/passeios/passeio-1", resp.Entries[0].PageURL)

	first := resp.Entries[0].Frame
	assert.Equal(t, player.SurfaceVideo, first.Update.Surface.Kind)
	assert.Contains(t, first.Commands, player.CommandPlay, "user should see the first video start")
	assert.Contains(t, resp.Entries[1].Frame.Commands, player.CommandMute)
	assert.Equal(t, shell.TabFeed, f.srv.shell.Active())
}

func TestFeed_EmptyShowsMessage(t *testing.T) {
	f := newFixture(t)
	f.catalog.items = nil

	resp := decode[feedResponse](t, f.do(t, http.MethodGet, "/api/feed", nil))
	assert.Equal(t, shell.StatusEmpty, resp.Status)
	assert.Equal(t, display.MsgNoVideos, resp.Message)
	assert.Empty(t, resp.Entries)
}

func TestGesture_SwipeAdvancesAndSnaps(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/feed", nil).Code)

	rec := f.do(t, http.MethodPost, "/api/feed/gesture", gestureRequest{Kind: "swipe", Delta: 120})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[gestureResponse](t, rec)
	assert.True(t, resp.Changed)
	assert.Equal(t, 1, resp.State.ActiveIndex)
	require.NotNil(t, resp.SnapTo)
	assert.Equal(t, 1, *resp.SnapTo)
	require.Len(t, resp.Frames, 3)
	assert.Equal(t, player.ActionPause, resp.Frames[0].Update.Action)
	assert.Contains(t, resp.Frames[1].Commands, player.CommandPlay, "user should see the second video start")
	assert.Contains(t, resp.Frames[1].Commands, player.CommandUnmute)
}

func TestGesture_ClampedAtEndDoesNotSnap(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/feed", nil)

	resp := decode[gestureResponse](t, f.do(t, http.MethodPost, "/api/feed/gesture", gestureRequest{Kind: "prev"}))
	assert.False(t, resp.Changed)
	assert.Nil(t, resp.SnapTo)
	assert.Equal(t, 0, resp.State.ActiveIndex)
}

func TestGesture_ToggleKeepsIndex(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/feed", nil)

	resp := decode[gestureResponse](t, f.do(t, http.MethodPost, "/api/feed/gesture", gestureRequest{Kind: "toggle"}))
	assert.True(t, resp.State.Paused)
	assert.Equal(t, 0, resp.State.ActiveIndex)
	assert.Contains(t, resp.Frames[0].Commands, player.CommandPause)
}

func TestGesture_Errors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/feed/gesture", gestureRequest{Kind: "next"})
	assert.Equal(t, http.StatusConflict, rec.Code, "gestures before the feed is mounted should be rejected")

	f.do(t, http.MethodGet, "/api/feed", nil)
	rec = f.do(t, http.MethodPost, "/api/feed/gesture", gestureRequest{Kind: "pinch"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/feed/gesture", strings.NewReader(`{"kind":"next","extra":1}`))
	out := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

// gatedCatalog holds feed fetches until release is closed.
type gatedCatalog struct {
	*fakeCatalog
	started chan struct{}
	release chan struct{}
}

func newGatedCatalog(items []catalog.FeedItem) *gatedCatalog {
	return &gatedCatalog{
		fakeCatalog: &fakeCatalog{items: items},
		started:     make(chan struct{}, 8),
		release:     make(chan struct{}),
	}
}

func (g *gatedCatalog) FetchFeedItems(ctx context.Context) []catalog.FeedItem {
	select {
	case g.started <- struct{}{}:
	default:
	}
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil
	}
	return g.fakeCatalog.FetchFeedItems(ctx)
}

func newGatedServer(t *testing.T, g *gatedCatalog) *Server {
	t.Helper()
	srv, err := New(Config{
		App:  shell.DefaultAppConfig(),
		Feed: feed.Options{Cooldown: -1},
	}, Deps{Catalog: g, Accounts: &fakeAccounts{}, Sessions: &memSessions{}})
	require.NoError(t, err)
	return srv
}

func serveFeed(srv *Server) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/feed", nil))
	return rec
}

func TestFeed_ConcurrentRemountsBothLoad(t *testing.T) {
	items := []catalog.FeedItem{streamingItem("1"), streamingItem("2"), streamingItem("3")}

	for i := 0; i < 20; i++ {
		g := newGatedCatalog(items)
		srv := newGatedServer(t, g)

		recs := make([]*httptest.ResponseRecorder, 2)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			recs[0] = serveFeed(srv)
		}()
		<-g.started
		go func() {
			defer wg.Done()
			recs[1] = serveFeed(srv)
		}()
		close(g.release)
		wg.Wait()

		for _, rec := range recs {
			require.Equal(t, http.StatusOK, rec.Code)
			resp := decode[feedResponse](t, rec)
			assert.Equal(t, shell.StatusReady, resp.Status, "user should never be left on a loading feed")
			assert.Len(t, resp.Entries, 3)
		}

		srv.mu.Lock()
		require.NotNil(t, srv.deck)
		assert.Equal(t, 3, srv.deck.Controller().Count(), "the mounted deck should hold the loaded items")
		srv.mu.Unlock()
	}
}

func TestFeed_LeavingTabWhileLoadingKeepsFeedUnmounted(t *testing.T) {
	g := newGatedCatalog([]catalog.FeedItem{streamingItem("1")})
	srv := newGatedServer(t, g)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- serveFeed(srv) }()
	<-g.started

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tabs/map", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	close(g.release)

	resp := decode[feedResponse](t, <-done)
	assert.Equal(t, shell.StatusIdle, resp.Status)
	assert.Empty(t, resp.Entries)

	srv.mu.Lock()
	assert.Nil(t, srv.deck, "a hidden feed should not be mounted")
	srv.mu.Unlock()
}

func TestFeed_LeavingTabUnmounts(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/feed", nil)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/tabs/map", nil).Code)

	rec := f.do(t, http.MethodPost, "/api/feed/gesture", gestureRequest{Kind: "next"})
	assert.Equal(t, http.StatusConflict, rec.Code, "feed should be unmounted after switching tabs")
}

func TestTabs(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/tabs/webview", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/tabs/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Perfil")
	assert.Contains(t, body, `id="login-form"`)

	rec = f.do(t, http.MethodGet, "/tabs/youtube", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "legacy tab name should open the feed")
	assert.Equal(t, shell.TabFeed, f.srv.shell.Active())

	rec = f.do(t, http.MethodGet, "/tabs/settings", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	state := decode[shell.State](t, f.do(t, http.MethodGet, "/api/shell", nil))
	assert.Equal(t, shell.TabFeed, state.Active)
	assert.Len(t, state.NavBar, 4)
}

func TestStaticAndHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/static/app.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	out := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(out, req)
	assert.Equal(t, "req-42", out.Header().Get(HeaderRequestID))
}

func TestSession_LoginAndLogout(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/session", nil).Code)

	rec := f.do(t, http.MethodPost, "/api/session", loginRequest{Identifier: "ana@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/session", loginRequest{Identifier: "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/session", loginRequest{Identifier: "ana@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[profileResponse](t, rec)
	assert.Equal(t, "ana souza", profile.Name)
	assert.Equal(t, "AS", profile.Initials)
	assert.Equal(t, shell.ViewOverview, profile.View)

	rec = f.do(t, http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/session", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/session", nil).Code)
}

func TestOrders(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "user should be asked to sign in")
	assert.Empty(t, f.accounts.calls)

	require.NoError(t, f.sessions.Update(session.Session{JWT: "jwt-1"}))
	f.accounts.orders = []account.Order{{ID: "11", Total: 250}}

	rec = f.do(t, http.MethodGet, "/api/orders?type=canceled", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[listResponse[account.Order]](t, rec)
	assert.Equal(t, "Pedidos Cancelados", resp.Title)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, []string{"orders:canceled:jwt-1"}, f.accounts.calls)

	f.do(t, http.MethodGet, "/api/orders?type=canceled", nil)
	assert.Len(t, f.accounts.calls, 1, "same screen key should not refetch")

	rec = f.do(t, http.MethodGet, "/api/orders?type=refunded", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrders_EmptyAndUnauthorized(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sessions.Update(session.Session{JWT: "jwt-1"}))

	resp := decode[listResponse[account.Order]](t, f.do(t, http.MethodGet, "/api/orders", nil))
	assert.Equal(t, "Meus Pedidos", resp.Title)
	assert.Equal(t, account.MsgNoOrders, resp.Message)
	assert.Empty(t, resp.Items)

	f.do(t, http.MethodDelete, "/api/session", nil)
	require.NoError(t, f.sessions.Update(session.Session{JWT: "jwt-expired"}))
	f.accounts.ordersErr = &account.APIError{Endpoint: "orders", Status: http.StatusUnauthorized}

	rec := f.do(t, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVouchers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sessions.Update(session.Session{JWT: "jwt-1"}))

	resp := decode[listResponse[account.Voucher]](t, f.do(t, http.MethodGet, "/api/vouchers", nil))
	assert.Equal(t, account.MsgNoVouchers, resp.Message)
	assert.Equal(t, shell.ViewVouchers, f.srv.shell.ProfileView())
}

func TestPassword(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/api/password", passwordRequest{CurrentPassword: "a", Password: "b", ConfirmPassword: "c"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "As senhas não coincidem")
	assert.Empty(t, f.accounts.calls, "mismatched passwords should never reach the API")

	valid := passwordRequest{CurrentPassword: "a", Password: "b", ConfirmPassword: "b"}
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPut, "/api/password", valid).Code)

	require.NoError(t, f.sessions.Update(session.Session{JWT: "jwt-1"}))
	rec = f.do(t, http.MethodPut, "/api/password", valid)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), account.MsgPasswordChanged)

	f.accounts.passwordErr = errors.New("boom")
	rec = f.do(t, http.MethodPut, "/api/password", valid)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), account.MsgPasswordFailed)
}

func TestProfileView(t *testing.T) {
	f := newFixture(t)

	state := decode[shell.State](t, f.do(t, http.MethodPost, "/api/profile/security", nil))
	assert.Equal(t, shell.ViewSecurity, state.Profile)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/profile/admin", nil).Code)
}

func ptr(v float64) *float64 { return &v }

func TestMap(t *testing.T) {
	f := newFixture(t)
	f.catalog.products = []catalog.MapProduct{
		{ID: "1", Name: "Vinícola A", Region: "Vale dos Vinhedos", Latitude: ptr(-29.1), Longitude: ptr(-51.5)},
		{ID: "2", Name: "Vinícola B", Region: "Campanha Gaúcha"},
	}

	rec := f.do(t, http.MethodGet, "/api/map?region=vale%20dos%20vinhedos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[mapResponse](t, rec)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "1", resp.Products[0].ID)
	assert.Equal(t, catalog.SouthAmerica, resp.Bounds, "unknown casing falls back to the continent box")

	resp = decode[mapResponse](t, f.do(t, http.MethodGet, "/api/map?region=Campanha%20Ga%C3%BAcha", nil))
	assert.Equal(t, catalog.BoundsFor("Campanha Gaúcha"), resp.Bounds)

	resp = decode[mapResponse](t, f.do(t, http.MethodGet, "/api/map", nil))
	assert.Len(t, resp.Products, 2)
}

func TestRegions_FallBackToProducts(t *testing.T) {
	f := newFixture(t)
	f.catalog.regionsErr = errors.New("search down")
	f.catalog.products = []catalog.MapProduct{
		{ID: "1", Region: "Serra Gaúcha"},
		{ID: "2", Region: "Serra Gaúcha"},
		{ID: "3"},
	}

	resp := decode[listResponse[string]](t, f.do(t, http.MethodGet, "/api/regions", nil))
	assert.Equal(t, []string{"Serra Gaúcha"}, resp.Items)
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t)
	srv, err := New(Config{RateLimit: 1}, Deps{Catalog: f.catalog, Accounts: f.accounts, Sessions: f.sessions})
	require.NoError(t, err)

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/shell", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}
	assert.Equal(t, http.StatusOK, get().Code)
	rec := get()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestStartShutdown_NoLeaks(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t)
	f.srv.cfg.Listen = "127.0.0.1:0"
	addr, err := f.srv.Start()
	require.NoError(t, err)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.srv.Shutdown(ctx))
	require.NoError(t, f.srv.Shutdown(ctx), "second shutdown is a no-op")
}
