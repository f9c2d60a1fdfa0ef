package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lazypower/halflife/internal/config"
	"github.com/lazypower/halflife/internal/logging"
	"github.com/lazypower/halflife/internal/server"
	"github.com/lazypower/halflife/internal/store"
	"github.com/spf13/cobra"
)

var (
	serveBind     string
	servePort     int
	serveHalfLife float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server and browser UI",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveBind, "bind", "", "Bind address (default 127.0.0.1)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default 8099)")
	serveCmd.Flags().Float64Var(&serveHalfLife, "half-life", 0, "Default half-life in hours (default 24)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logging.Setup()
	cfg := config.Default()

	if serveBind != "" {
		cfg.Server.Bind = serveBind
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveHalfLife != 0 {
		cfg.Dosing.HalfLifeHours = serveHalfLife
	}
	if v := os.Getenv("HALFLIFE_HALF_LIFE_HOURS"); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("HALFLIFE_HALF_LIFE_HOURS: %w", err)
		}
		cfg.Dosing.HalfLifeHours = h
	}
	if cfg.Dosing.HalfLifeHours <= 0 {
		return fmt.Errorf("default half-life must be positive, got %g", cfg.Dosing.HalfLifeHours)
	}

	// Session store: in-memory only, discarded on exit.
	db, err := store.OpenMemory()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer db.Close()

	srv := server.New(db, cfg.Dosing.HalfLifeHours, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("halflife serving", "addr", addr, "half_life_hours", cfg.Dosing.HalfLifeHours)
		slog.Info("dose state is session-scoped and will be discarded on exit")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
