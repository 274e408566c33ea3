// Package main provides the winelocals CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gauthierbraillon/winelocals/internal/account"
	"github.com/gauthierbraillon/winelocals/internal/catalog"
	"github.com/gauthierbraillon/winelocals/internal/config"
	"github.com/gauthierbraillon/winelocals/internal/display"
	"github.com/gauthierbraillon/winelocals/internal/host"
	"github.com/gauthierbraillon/winelocals/internal/log"
	"github.com/gauthierbraillon/winelocals/internal/media"
	"github.com/gauthierbraillon/winelocals/internal/session"
	"github.com/gauthierbraillon/winelocals/internal/tui"
	"github.com/gauthierbraillon/winelocals/pkg/browser"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(v string, info *debug.BuildInfo) string {
	if v != "" && v != "dev" {
		return v
	}
	if info != nil && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func buildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}

// app carries the resolved configuration to the subcommands.
type app struct {
	cfgPath string
	cfg     config.Config
}

func (a *app) load() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log.Configure(log.Config{Level: cfg.Log.Level, Service: "winelocals"})
	a.cfg = cfg
	return nil
}

func (a *app) httpClient() *http.Client {
	return &http.Client{Timeout: a.cfg.API.Timeout}
}

func (a *app) catalog() *catalog.Client {
	return catalog.NewClient(
		catalog.WithHTTPClient(a.httpClient()),
		catalog.WithBaseURL(a.cfg.API.BaseURL),
		catalog.WithSearchURL(a.cfg.API.SearchURL),
	)
}

func (a *app) accounts() *account.Client {
	return account.NewClient(
		account.WithHTTPClient(a.httpClient()),
		account.WithBaseURL(a.cfg.API.BaseURL),
	)
}

func (a *app) sessions() (*session.Store, error) {
	store := session.NewStore(a.cfg.Dir)
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

// token returns the signed-in user's token.
func (a *app) token() (string, error) {
	store, err := a.sessions()
	if err != nil {
		return "", err
	}
	jwt, err := store.Token()
	if errors.Is(err, session.ErrNoSession) {
		return "", fmt.Errorf("not signed in (run 'winelocals login')")
	}
	return jwt, err
}

func (a *app) timeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.API.Timeout)
}

// newRootCmd creates the root command for winelocals CLI.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "winelocals",
		Short:        "Wine Locals shell: short-video feed, map and profile",
		Long:         "Winelocals runs the Wine Locals app shell locally and exposes its feed, map and profile screens in the terminal.",
		Version:      resolveVersion(version, buildInfo()),
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("winelocals version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Config file (default: config.yaml in the config directory)")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newShortsCmd(a))
	rootCmd.AddCommand(newFeedCmd(a))
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newOrdersCmd(a))
	rootCmd.AddCommand(newVouchersCmd(a))
	rootCmd.AddCommand(newPasswdCmd(a))
	rootCmd.AddCommand(newRegionsCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newServeCmd creates the serve subcommand.
func newServeCmd(a *app) *cobra.Command {
	var listen string
	var open bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the app shell on a local web server",
		Long:  "Serve the tab shell (site, shorts, map, profile) on loopback for an embedded browser.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if listen != "" {
				a.cfg.Host.Listen = listen
			}
			store, err := a.sessions()
			if err != nil {
				return err
			}

			srv, err := host.New(host.Config{
				Listen:    a.cfg.Host.Listen,
				RateLimit: a.cfg.Host.RateLimit,
				App:       a.cfg.App,
				Feed:      a.cfg.Feed.Options(),
			}, host.Deps{
				Catalog:  a.catalog(),
				Accounts: a.accounts(),
				Sessions: store,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr, err := srv.Start()
			if err != nil {
				return err
			}
			url := "http://" + addr
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", a.cfg.App.AppName, url)
			if open {
				if err := browser.Open(url); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Could not open browser. Please visit:\n%s\n", url)
				}
			}

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config, 127.0.0.1:8787)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the shell in the default browser")

	return cmd
}

// newShortsCmd creates the shorts subcommand.
func newShortsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shorts",
		Short: "Browse the short-video feed in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return tui.Run(ctx, tui.Options{
				Load: a.catalog().FetchFeedItems,
				Open: browser.Open,
				Feed: a.cfg.Feed.Options(),
			})
		},
	}
}

// newFeedCmd creates the feed subcommand.
func newFeedCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Display the short-video feed",
		Long:  "Fetch products with videos and list them in feed order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			ctx, cancel := a.timeout()
			defer cancel()

			items := a.catalog().FetchFeedItems(ctx)
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			formatter := display.NewTerminalFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeed(items))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of items to display (0 for all)")

	return cmd
}

// newResolveCmd creates the resolve subcommand.
func newResolveCmd() *cobra.Command {
	var d media.Descriptor

	cmd := &cobra.Command{
		Use:   "resolve [url]",
		Short: "Show how a video descriptor resolves",
		Long:  "Resolve a video URL or explicit ids into a playable source and its URLs.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				d.RawURL = args[0]
			}
			if d.Empty() {
				return fmt.Errorf("nothing to resolve: pass a url, --playback-id or --youtube-id")
			}
			formatter := display.NewTerminalFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResolution(d, media.Resolve(d)))
			return nil
		},
	}

	cmd.Flags().StringVar(&d.StreamingAssetID, "playback-id", "", "Streaming service playback id")
	cmd.Flags().StringVar(&d.SharedPlatformID, "youtube-id", "", "Video-sharing platform id")
	cmd.Flags().StringVar(&d.ThumbURL, "thumb", "", "Explicit thumbnail URL")

	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Show the config directory, the session record and the resolved settings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config directory: %s\n", a.cfg.Dir)
			if a.cfg.Source != "" {
				fmt.Fprintf(out, "Config file: %s\n", a.cfg.Source)
			}
			fmt.Fprintf(out, "Session record: %s\n\n", session.NewStore(a.cfg.Dir).Path())

			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "winelocals version %s\n", cmd.Root().Version)
		},
	}
}
