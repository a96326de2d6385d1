/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"qmsevents/internal/bootstrap"
	"qmsevents/internal/bootstrap/logging"
	"qmsevents/internal/errs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the QMS events HTTP API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr := app.Config.HTTP.Addr
		if override, _ := cmd.Flags().GetString("addr"); override != "" {
			addr = override
		}

		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return errs.Wrapf(err, "listen on %s", addr)
		}
		logging.Info(ctx, "http server listening",
			slog.String("addr", ln.Addr().String()),
			slog.String("prefix", app.Config.HTTP.Prefix),
		)

		srv := &http.Server{
			Handler:           app.Handler,
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return ctx },
		}
		return serveHTTP(sigCtx, srv, ln, app.Config.HTTP.ShutdownTimeout)
	}),
}

// serveHTTP runs srv on ln until ctx is done, then drains in-flight requests
// for at most shutdownTimeout.
func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errs.Wrap(err, "serve http")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info(ctx, "http server shutting down", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logging.Info(ctx, "http server stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address, overrides http.addr")
}
