package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/fieldops-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	bootstrap.SetupLogger(cfg.App)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	app, err := bootstrap.Open(ctx, cfg, clock.New())
	if err != nil {
		return err
	}
	defer app.Close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(JWTService, cfg.App, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(app.Attendance, app.Roster),
		Roster:     appHTTP.NewRosterHandler(app.Roster),
		Sweep:      appHTTP.NewSweepHandler(app.Sweep, cfg.Sweep),
	})

	if cfg.Sweep.InProcess {
		scheduler := cron.NewScheduler(ctx)
		cron.NewSweepJobs(app.Sweep, cfg.Sweep.Interval).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", server.Addr, "storage", cfg.Storage.Driver, "sweep_in_process", cfg.Sweep.InProcess)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Server shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
