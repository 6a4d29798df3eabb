package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-ga-steering/internal/termview"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "JSON configuration file (defaults when empty)")
	scenario := flag.String("scenario", "", "override the configured scenario")
	agents := flag.Int("agents", 0, "override the configured agent count")
	logPath := flag.String("log", "", "write logs to this file (the terminal is taken by the view)")
	interval := flag.Duration("interval", 50*time.Millisecond, "wall time between ticks")
	flag.Parse()

	if err := run(*configPath, *scenario, *agents, *logPath, *interval); err != nil {
		fmt.Fprintf(os.Stderr, "crowd-tty: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, scenario string, agents int, logPath string, interval time.Duration) error {
	var logger log.Logger = log.DiscardLogger
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.New(log.InfoLevel, f)
	}

	cfg, err := simulation.LoadConfigOrDefault(configPath)
	if err != nil {
		return err
	}
	if scenario != "" {
		cfg.Scenario = scenario
	}
	if agents > 0 {
		cfg.Agents = agents
	}
	spawns, err := cfg.Layout()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	steering, err := cfg.BuildSteering(nil, logger)
	if err != nil {
		return err
	}
	crowd, err := simulation.NewCrowd(ctx, cfg, steering, simulation.WithLogger(logger))
	if err != nil {
		return err
	}
	defer crowd.Stop(context.Background())

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	renderer := termview.NewRenderer(screen, spawns, 2*cfg.AgentRadius)
	last, err := termview.Run(ctx, screen, renderer, crowd, interval)
	if err != nil && ctx.Err() == nil {
		return err
	}
	logger.Infof("stopped at tick %d with %d/%d agents arrived", last.Tick, last.Arrived, len(last.Agents))
	return nil
}
