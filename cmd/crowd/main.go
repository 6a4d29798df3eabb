package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-ga-steering/internal/viewer"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "JSON configuration file (defaults when empty)")
	scenario := flag.String("scenario", "", "override the configured scenario")
	agents := flag.Int("agents", 0, "override the configured agent count")
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

	ctx := context.Background()
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("GA steering: %s, %d agents", cfg.Scenario, cfg.Agents))

	game, err := viewer.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("viewer: %v", err)
	}
	defer game.Stop()
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal(err)
	}
}
