package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/mesim/internal/config"
	"github.com/zeusync/mesim/internal/core/controller"
	"github.com/zeusync/mesim/internal/core/events/bus"
	"github.com/zeusync/mesim/internal/core/observability/log"
	"github.com/zeusync/mesim/internal/injector"
	"github.com/zeusync/mesim/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "configs/mesim.yaml", "path to the YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(2)
	}

	app := injector.InitializeApp(cfg)
	defer func() { _ = app.Logger.Sync() }()

	if err := run(app); err != nil {
		app.Logger.Error("mesim stopped", log.Error(err))
		_ = app.Logger.Sync()
		os.Exit(1)
	}
}

func run(app *injector.App) error {
	if err := app.Controller.Err(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d := app.Config.Sandbox.Duration; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	events := app.Logger.With(log.String("component", "events"))
	for _, typ := range controller.AllEvents {
		if err := app.Controller.On(typ, func(e bus.Event) error {
			events.Info(e.Type(), log.Float64("at", e.At()), log.Any("data", e.Data()))
			return nil
		}); err != nil {
			return err
		}
	}
	defer func() { _ = app.Controller.Close() }()

	if err := app.Controller.Startup(ctx); err != nil {
		app.Logger.Warn("startup avatar not loaded", log.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	if addr := app.Config.Sandbox.TelemetryAddr; addr != "" {
		g.Go(func() error { return app.Hub.Serve(gctx, addr) })
	}
	g.Go(func() error { return loop(gctx, app) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	app.Logger.Info("mesim finished", log.Float64("sim_time", app.Controller.Now()))
	return err
}

// loop ticks the controller at a fixed rate until ctx is done. Simulation time
// advances by exactly one interval per tick.
func loop(ctx context.Context, app *injector.App) error {
	interval := app.Config.TickInterval()
	dt := interval.Seconds()
	script := newScript(app.Config.Sandbox.Script, app.Logger.With(log.String("component", "script")))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			app.Hub.Close()
			return ctx.Err()
		case <-ticker.C:
		}

		script.fire(ctx, app.Controller.Now(), app.Controller, app.Floor)
		if err := app.Controller.Tick(dt); err != nil {
			app.Logger.Warn("event handler failed", log.Error(err))
		}
		if app.Hub.Clients() > 0 {
			if err := app.Hub.Broadcast(app.Controller.Snapshot()); err != nil && !errors.Is(err, telemetry.ErrHubClosed) {
				app.Logger.Debug("telemetry broadcast failed", log.Error(err))
			}
		}
	}
}
