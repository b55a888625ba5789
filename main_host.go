//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"fancywatch/app"
	"fancywatch/hal"
	"fancywatch/internal/buildinfo"
	"fancywatch/internal/config"
	"fancywatch/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flag.BoolVar(&cfg.Headless.Enabled, "headless", cfg.Headless.Enabled, "Run without a window.")
	flag.IntVar(&cfg.Headless.Hz, "hz", cfg.Headless.Hz, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Headless.Ticks, "ticks", cfg.Headless.Ticks, "Stop after N ticks in headless mode (0 = run forever).")
	flag.DurationVar(&cfg.Kernel.FramePeriod, "frame", cfg.Kernel.FramePeriod, "Target frame period.")
	flag.DurationVar(&cfg.Kernel.InactivityTimeout, "sleep-after", cfg.Kernel.InactivityTimeout, "Sleep after this long without input (0 = never).")
	flag.IntVar(&cfg.Window.Scale, "scale", cfg.Window.Scale, "Window scale factor.")
	flag.IntVar(&cfg.Logging.ConsoleRows, "console", cfg.Logging.ConsoleRows, "Rows of on-screen log overlay (0 = off).")
	flag.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Log level (debug, info, warn, error).")
	flag.StringVar(&cfg.Metrics.Addr, "metrics", cfg.Metrics.Addr, "Serve Prometheus metrics on this address.")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	z, err := hal.NewZap(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer z.Sync()
	z.Info("starting", zap.Strings("build", buildinfo.Fields()), zap.Bool("headless", cfg.Headless.Enabled))

	h := hal.NewHost(hal.HostConfig{
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		Log:            z,
		BatteryPercent: cfg.Battery.Percent,
		Charging:       cfg.Battery.Charging,
	})

	appCfg := app.DefaultConfig()
	appCfg.Kernel.FramePeriod = cfg.Kernel.FramePeriod
	appCfg.Kernel.InactivityTimeout = cfg.Kernel.InactivityTimeout
	appCfg.Kernel.QueueSize = cfg.Kernel.QueueSize
	appCfg.Kernel.Brightness = cfg.Kernel.Brightness
	appCfg.ConsoleRows = cfg.Logging.ConsoleRows

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New(prometheus.NewRegistry())
		appCfg.Observer = m
	}

	runner, err := app.Runner(h, appCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	if m != nil {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			z.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return srv.Shutdown(shutdown)
		})
	}
	g.Go(func() error {
		defer stop()
		if cfg.Headless.Enabled {
			return hal.RunHeadless(gctx, h, runner, hal.HeadlessConfig{
				Enabled: true,
				Hz:      cfg.Headless.Hz,
				Ticks:   cfg.Headless.Ticks,
			})
		}
		return hal.RunWindow(gctx, h, runner, hal.WindowConfig{Scale: cfg.Window.Scale})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
