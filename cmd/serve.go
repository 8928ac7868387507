package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/glance/internal/art"
	"github.com/desertthunder/glance/internal/server"
	"github.com/desertthunder/glance/internal/shared"
	"github.com/desertthunder/glance/internal/tasks"
	"github.com/urfave/cli/v3"
)

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the relay server and background token refresher",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Override the configured listen port",
			},
		},
		Action: r.Serve,
	}
}

// Serve wires the session store, Spotify client, art pipeline, and HTTP
// routes together, then runs until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: spotify client credentials are not configured", shared.ErrMissingCredentials)
	}

	config := r.config
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = int(port)
	}

	engine := tasks.NewTrackEngine(r.store, r.spotify, art.NewPipeline(nil), r.logger)
	refresher := tasks.NewRefresher(
		r.store,
		r.spotify,
		r.logger,
		time.Duration(config.Refresher.IntervalSeconds)*time.Second,
		time.Duration(config.Refresher.LookAheadSeconds)*time.Second,
	)

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))

	router.Handler(server.NewAuthHandler(r.spotify, engine, config.Server.DefaultUserID, r.logger))

	guard := server.SessionGuard(r.store)
	trackHandler := server.NewTrackHandler(engine, r.logger)
	router.Handle("GET /current-track", http.HandlerFunc(trackHandler.CurrentTrack), guard)
	router.Handle("GET /art.bmp", http.HandlerFunc(trackHandler.Art), guard)
	router.Handle("GET /health", http.HandlerFunc(server.Health))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go refresher.Start(ctx)

	srv := server.NewServer(config.Addr(), router, r.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
