package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/warden/internal/ai"
	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/db"
	"github.com/udisondev/warden/internal/model"
	"github.com/udisondev/warden/internal/scenario"
)

const SimConfigPath = "config/npcsim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := SimConfigPath
	if p := os.Getenv("WARDEN_SIM_CONFIG"); p != "" {
		cfgPath = p
	}
	simCfg, err := config.LoadSimulator(cfgPath)
	if err != nil {
		return fmt.Errorf("loading simulator config: %w", err)
	}

	logLevel := parseLogLevel(simCfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("warden npc simulator starting",
		"log_level", simCfg.LogLevel,
		"tick_interval", simCfg.TickInterval)

	sc, err := scenario.Load(simCfg.ScenarioFile)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	behavior, route, err := loadBehavior(ctx, simCfg, sc)
	if err != nil {
		return err
	}

	var opts []scenario.BuildOption
	if len(route) > 0 {
		opts = append(opts, scenario.WithDefaultRoute(route))
	}

	var current atomic.Pointer[scenario.Session]
	sess := sc.Build(behavior, opts...)
	current.Store(sess)

	aiMgr := ai.NewTickManager(simCfg.TickInterval)
	sess.Attach(aiMgr)
	defer aiMgr.UnregisterAll()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting AI tick manager", "interval", aiMgr.Interval())
		if err := aiMgr.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("AI tick manager: %w", err)
		}
		return nil
	})

	// The behavior file only drives the NPCs when no database profile is used.
	if simCfg.HotReload && simCfg.Profile == "" {
		g.Go(func() error {
			err := config.WatchBehavior(gctx, simCfg.BehaviorFile, func(cfg config.Behavior) {
				next := sc.Build(cfg, opts...)
				aiMgr.Enqueue(func() {
					next.Attach(aiMgr)
					current.Store(next)
					slog.Info("session restarted with reloaded behavior")
				})
			})
			if err != nil {
				return fmt.Errorf("behavior watcher: %w", err)
			}
			return nil
		})
	}

	if simCfg.ReportInterval > 0 {
		g.Go(func() error {
			report(gctx, simCfg.ReportInterval, &current)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulator error: %w", err)
	}

	slog.Info("warden npc simulator stopped", "ticks", aiMgr.Ticks())
	return nil
}

// loadBehavior returns the behavior config and default patrol route. With a
// profile configured they come from the database; a missing profile is seeded
// from the behavior file and the first scenario route.
func loadBehavior(ctx context.Context, simCfg config.Simulator, sc *scenario.Scenario) (config.Behavior, []model.Vec3, error) {
	fileCfg, err := config.LoadBehavior(simCfg.BehaviorFile)
	if err != nil {
		return config.Behavior{}, nil, fmt.Errorf("loading behavior config: %w", err)
	}
	if simCfg.Profile == "" {
		return fileCfg, nil, nil
	}

	dsn := simCfg.Database.DSN()
	database, err := db.New(ctx, dsn)
	if err != nil {
		return config.Behavior{}, nil, fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, dsn); err != nil {
		return config.Behavior{}, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	repo := db.NewProfileRepository(database.Pool())
	profile, err := repo.Load(ctx, simCfg.Profile)
	if errors.Is(err, db.ErrProfileNotFound) {
		profile = db.Profile{Name: simCfg.Profile, Behavior: fileCfg, Route: sc.NPCs[0].Route}
		if err := repo.Save(ctx, profile); err != nil {
			return config.Behavior{}, nil, fmt.Errorf("seeding profile: %w", err)
		}
		slog.Info("behavior profile seeded", "profile", profile.Name, "waypoints", len(profile.Route))
	} else if err != nil {
		return config.Behavior{}, nil, fmt.Errorf("loading profile: %w", err)
	}

	slog.Info("behavior profile loaded", "profile", profile.Name, "waypoints", len(profile.Route))
	return profile.Behavior, profile.Route, nil
}

// report logs every NPC's state at a fixed interval until ctx is done.
func report(ctx context.Context, interval time.Duration, current *atomic.Pointer[scenario.Session]) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sess := current.Load()
			for _, r := range sess.Reports() {
				slog.Info("npc",
					"name", r.Name,
					"state", r.State,
					"distance", fmt.Sprintf("%.2f", r.Distance),
					"attacks", r.Attacks)
			}
		}
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
