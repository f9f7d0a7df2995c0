package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/locus-group/facility-cli/internal/server"
	"github.com/locus-group/facility-cli/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the session-based facility location API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store := session.NewStore(cfg.Defaults.TransportRate, cfg.Defaults.Mass)
		handler := server.New(store, cfg)

		// Expire idle sessions in the background. A non-positive TTL
		// disables sweeping; sessions then live until deleted.
		ttl := time.Duration(cfg.Server.SessionTTLMins) * time.Minute
		if interval := sweepInterval(ttl); interval > 0 {
			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if removed := store.Sweep(ttl); removed > 0 {
							zap.L().Info("swept idle sessions", zap.Int("removed", removed))
						}
					}
				}
			}()
		} else {
			zap.L().Warn("session sweeping disabled", zap.Duration("ttl", ttl))
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: handler.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// sweepInterval derives the sweeper tick from the session TTL, at least one
// minute apart. Zero means no sweeping.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}
