package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/api"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/log"
)

const shutdownTimeout = 5 * time.Second

type serveOpts struct {
	addr    string
	origins []string
}

func (a *app) serveCmd() *cobra.Command {
	var o serveOpts
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve encode and decode over HTTP",
		Long: `Serve the configured code as a JSON API until interrupted.

  POST /encode   {"message": "1010101"}
  POST /decode   {"received_message": "101010111100001"}
  GET  /info     code parameters
  GET  /metrics  Prometheus text
  GET  /stats    metrics as JSON

Messages are binary strings, most significant bit first. Malformed input
and words the code cannot correct are answered with 400.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, o)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&o.addr, "addr", "127.0.0.1:8080", "Address to listen on")
	fs.StringSliceVar(&o.origins, "cors-origin", []string{"*"}, "Origins allowed to call the API from a browser")
	return cmd
}

// serve runs the HTTP service until ctx is cancelled, then drains open
// requests.
func (a *app) serve(ctx context.Context, o serveOpts) error {
	cors := api.DefaultCORSConfig()
	cors.AllowedOrigins = o.origins
	handler := api.NewServer(a.code, a.registry,
		api.WithLogger(log.Default().Module("api")),
		api.WithCORS(cors),
	).Handler()

	ln, err := net.Listen("tcp", o.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       time.Minute,
	}
	a.logger.Info("HTTP service listening", "addr", ln.Addr().String(), "code", a.code.String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	a.logger.Info("HTTP service stopped")
	return nil
}
