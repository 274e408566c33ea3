// Package host serves the app shell to an embedded browser over loopback.
//
// It plays the part of a mobile container's local asset server: it renders
// the tab shell, owns the feed controller and the navigation state, and
// proxies the profile and map screens to the remote APIs.
package host

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/winelocals/internal/account"
	"github.com/gauthierbraillon/winelocals/internal/catalog"
	"github.com/gauthierbraillon/winelocals/internal/feed"
	"github.com/gauthierbraillon/winelocals/internal/log"
	"github.com/gauthierbraillon/winelocals/internal/metrics"
	"github.com/gauthierbraillon/winelocals/internal/session"
	"github.com/gauthierbraillon/winelocals/internal/shell"
)

// Catalog reads products and regions.
type Catalog interface {
	FetchFeedItems(ctx context.Context) []catalog.FeedItem
	Regions(ctx context.Context) ([]string, error)
	MapProducts(ctx context.Context) ([]catalog.MapProduct, error)
}

// Accounts proxies the authenticated user endpoints.
type Accounts interface {
	Login(ctx context.Context, identifier, password string) (session.Session, error)
	Orders(ctx context.Context, jwt string, typ account.OrderType) ([]account.Order, error)
	Vouchers(ctx context.Context, jwt string) ([]account.Voucher, error)
	ChangePassword(ctx context.Context, jwt string, form account.PasswordChange) error
}

// Sessions holds the signed-in user.
type Sessions interface {
	Current() (session.Session, error)
	Update(sess session.Session) error
	Clear() error
}

// Config configures the host.
type Config struct {
	Listen    string
	RateLimit int // API requests per minute per client; zero disables the limit
	App       shell.AppConfig
	Feed      feed.Options
}

// Deps are the collaborators of the host.
type Deps struct {
	Catalog  Catalog
	Accounts Accounts
	Sessions Sessions
	Shell    *shell.Shell
}

// Server is the local shell host.
type Server struct {
	cfg      Config
	catalog  Catalog
	accounts Accounts
	sessions Sessions
	shell    *shell.Shell

	// mu serializes every feed interaction, like a UI event loop.
	mu    sync.Mutex
	items []catalog.FeedItem
	deck  *feed.Deck
	snap  int

	// remountMu makes a feed remount (fetch and deck rebuild) one step.
	remountMu  sync.Mutex
	feedScreen *shell.Screen[catalog.FeedItem]
	orders     *shell.Screen[account.Order]
	vouchers   *shell.Screen[account.Voucher]
	regions    *shell.Screen[string]
	products   *shell.Screen[catalog.MapProduct]

	router chi.Router
	pages  *pages
	logger zerolog.Logger

	srvMu sync.Mutex
	srv   *http.Server
}

// New creates a host and its routes.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Catalog == nil || deps.Accounts == nil || deps.Sessions == nil {
		return nil, errors.New("host: catalog, accounts and sessions are required")
	}
	if deps.Shell == nil {
		deps.Shell = shell.New()
	}
	pg, err := loadPages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		catalog:  deps.Catalog,
		accounts: deps.Accounts,
		sessions: deps.Sessions,
		shell:    deps.Shell,
		snap:     -1,
		pages:    pg,
		logger:   log.WithComponent("host"),
	}
	s.feedScreen = shell.NewScreen(func(ctx context.Context, _ string) ([]catalog.FeedItem, error) {
		return s.catalog.FetchFeedItems(ctx), nil
	})
	s.orders = shell.NewScreen(s.loadOrders)
	s.vouchers = shell.NewScreen(func(ctx context.Context, jwt string) ([]account.Voucher, error) {
		return s.accounts.Vouchers(ctx, jwt)
	})
	s.regions = shell.NewScreen(s.loadRegions)
	s.products = shell.NewScreen(func(ctx context.Context, _ string) ([]catalog.MapProduct, error) {
		return s.catalog.MapProducts(ctx)
	})

	s.shell.OnSelect(s.onTabChange)
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background. It
// returns the bound address, which differs from the configured one for ":0".
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return "", fmt.Errorf("listen %s: %w", s.cfg.Listen, err)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("shell host stopped")
		}
	}()
	addr := ln.Addr().String()
	s.logger.Info().Str("addr", addr).Msg("shell host listening")
	return addr, nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srv = nil
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if _, err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(recoverer)
	r.Use(requestID)
	r.Use(securityHeaders)
	r.Use(observe)
	r.Use(log.Middleware())

	r.Get("/", s.handleRoot)
	r.Get("/tabs/{tab}", s.handleTab)
	r.Get("/static/*", s.pages.static.ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(rateLimit(s.cfg.RateLimit, time.Minute))
		}
		r.Get("/shell", s.handleShellState)
		r.Get("/feed", s.handleFeed)
		r.Post("/feed/gesture", s.handleGesture)
		r.Get("/session", s.handleSession)
		r.Post("/session", s.handleLogin)
		r.Delete("/session", s.handleLogout)
		r.Post("/profile/{view}", s.handleProfileView)
		r.Get("/orders", s.handleOrders)
		r.Get("/vouchers", s.handleVouchers)
		r.Put("/password", s.handlePassword)
		r.Get("/regions", s.handleRegions)
		r.Get("/map", s.handleMap)
	})
	return r
}

// onTabChange unmounts the screens of the tab being left.
func (s *Server) onTabChange(prev, _ shell.Tab) {
	switch prev {
	case shell.TabFeed:
		s.feedScreen.Unmount()
		s.mu.Lock()
		s.deck, s.items, s.snap = nil, nil, -1
		s.mu.Unlock()
	case shell.TabProfile:
		s.orders.Unmount()
		s.vouchers.Unmount()
		s.shell.Back()
	case shell.TabMap:
		s.regions.Unmount()
		s.products.Unmount()
	}
}
