package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/pagesblog"
)

var (
	serveAddr    string
	serveContent string
	serveStatic  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		if serveContent != "" {
			cfg.ContentSource = serveContent
		}

		app := pagesblog.New(cfg, pagesblog.WithStaticDir(serveStatic))
		defer app.Close()

		if err := app.Setup(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// SIGHUP drops the cached index so edits to posts.json show up
		// before the TTL runs out.
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		errCh := make(chan error, 1)
		go func() { errCh <- app.Serve() }()

	wait:
		for {
			select {
			case err := <-errCh:
				return err
			case <-hup:
				app.Echo.Logger.Info("reloading post index")
				app.Cache.Invalidate()
			case <-ctx.Done():
				break wait
			}
		}

		app.Echo.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return <-errCh
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides ADDR)")
	serveCmd.Flags().StringVar(&serveContent, "content", "", "content directory or base URL (overrides CONTENT_SOURCE)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "public", "directory for site-owned static files")
	rootCmd.AddCommand(serveCmd)
}
