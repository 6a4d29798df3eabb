package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/lao-tseu-is-alive/go-ga-steering/internal/report"
	"github.com/lao-tseu-is-alive/go-ga-steering/internal/storage"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "JSON configuration file (defaults when empty)")
	scenario := flag.String("scenario", "", "override the configured scenario")
	agents := flag.Int("agents", 0, "override the configured agent count")
	maxTicks := flag.Int("ticks", -1, "override maxTicks (0 runs until every agent arrived)")
	dbPath := flag.String("db", "", "record every planner run in this sqlite file")
	plotDir := flag.String("plot", "", "write trajectories.png to this directory")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := log.New(level, os.Stdout)

	cfg, err := simulation.LoadConfigOrDefault(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *scenario != "" {
		cfg.Scenario = *scenario
	}
	if *agents > 0 {
		cfg.Agents = *agents
	}
	if *maxTicks >= 0 {
		cfg.MaxTicks = *maxTicks
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sink planner.Sink
	if *dbPath != "" {
		store := storage.NewSQLiteStore(*dbPath)
		if err := store.Init(ctx); err != nil {
			logger.Fatalf("storage: %v", err)
		}
		defer store.Close()
		sink = storage.NewSink(ctx, store, logger)
	}

	steering, err := cfg.BuildSteering(sink, logger)
	if err != nil {
		logger.Fatalf("planner: %v", err)
	}
	crowd, err := simulation.NewCrowd(ctx, cfg, steering, simulation.WithLogger(logger))
	if err != nil {
		logger.Fatalf("crowd: %v", err)
	}
	defer crowd.Stop(context.Background())

	tracks := make(map[string][]geometry.Vector2D)
	destinations := make(map[string]geometry.Vector2D)
	if first, err := crowd.Current(ctx); err == nil {
		for _, a := range first.Agents {
			tracks[a.Name] = append(tracks[a.Name], a.Position)
			destinations[a.Name] = a.Destination
		}
	}
	last, err := crowd.Run(ctx, cfg.MaxTicks, func(s *simulation.Snapshot) {
		for _, a := range s.Agents {
			tracks[a.Name] = append(tracks[a.Name], a.Position)
		}
	})
	if err != nil {
		logger.Errorf("run: %v", err)
	}
	if last != nil {
		logger.Infof("%s: tick %d, %d/%d agents arrived", cfg.Scenario, last.Tick, last.Arrived, len(last.Agents))
	}

	if *plotDir != "" {
		out := filepath.Join(*plotDir, "trajectories.png")
		if err := report.Trajectories(tracks, destinations, out); err != nil {
			logger.Errorf("plot: %v", err)
		} else {
			logger.Infof("wrote %s", out)
		}
	}
}
