// Package viewer draws a running crowd in an ebiten window and lets the
// planner be re-tuned from a side panel.
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/ui"
	"github.com/tochemey/goakt/v3/log"
)

const panelWidth = 260.0

var (
	destinationColor = color.RGBA{R: 255, G: 220, B: 60, A: 255}
	cornerColor      = color.RGBA{R: 255, G: 255, B: 255, A: 60}
	radiusColor      = color.RGBA{R: 0, G: 140, B: 255, A: 120}
	velocityColor    = color.RGBA{R: 255, G: 80, B: 80, A: 255}
)

// Game implements ebiten.Game over a simulation.Crowd.
type Game struct {
	ctx    context.Context
	cfg    *simulation.Config
	logger log.Logger
	opts   []simulation.Option

	crowd     *simulation.Crowd
	lastState *simulation.Snapshot
	pending   bool
	cam       camera
	lastErr   error

	panel *ui.Panel

	widgetPopulation   *ui.Slider
	widgetIterations   *ui.Slider
	widgetPathLength   *ui.Slider
	widgetMutationProb *ui.Slider
	widgetRotation     *ui.Slider
	widgetCollision    *ui.Slider
	widgetEndDistance  *ui.Slider
	widgetJerk         *ui.Slider
	widgetSpeed        *ui.Slider
	widgetPaused       *ui.Checkbox
	widgetRadius       *ui.Checkbox
	widgetCorners      *ui.Checkbox
	widgetVelocity     *ui.Checkbox

	stepOnce bool

	// Timing instrumentation, rolling averages in ms
	updateAvg float64
	drawAvg   float64
}

// New starts a crowd for cfg and builds the tuning panel.
func New(ctx context.Context, cfg *simulation.Config, logger log.Logger, opts ...simulation.Option) (*Game, error) {
	g := &Game{
		ctx:       ctx,
		cfg:       cfg,
		logger:    logger,
		opts:      opts,
		lastState: &simulation.Snapshot{},
	}
	g.buildPanel()
	if err := g.restart(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) buildPanel() {
	pc := g.cfg.Planner
	p := ui.NewPanel("GA steering", 10, 10, panelWidth, float64(g.cfg.WindowHeight)-20)

	p.Section("Planner (restart)")
	g.widgetPopulation = p.AddIntSlider("Population", 2, 100, pc.PopulationSize)
	g.widgetIterations = p.AddIntSlider("Iterations", 0, 200, pc.Iterations)
	g.widgetPathLength = p.AddIntSlider("Path length", 1, 40, pc.PathLength)
	g.widgetMutationProb = p.AddSlider("Mutation prob.", 0, 1, pc.MutationProbability)
	g.widgetRotation = p.AddSlider("Rotation range", 1, 90, pc.RotationRange)

	p.Section("Weights (restart)")
	g.widgetCollision = p.AddSlider("Collision", 0, 1, pc.Weights.Collision)
	g.widgetEndDistance = p.AddSlider("End distance", 0, 1, pc.Weights.EndDistance)
	g.widgetJerk = p.AddSlider("Jerk", 0, 1, pc.Weights.Jerk)

	p.Section("Agents (restart)")
	g.widgetSpeed = p.AddSlider("Speed", 0.5, 20, g.cfg.AgentSpeed)

	p.Section("Run")
	g.widgetPaused = p.AddCheckbox("Paused", false)
	p.AddButton("Step", func() { g.stepOnce = true })
	p.AddButton("Restart", func() {
		if err := g.restart(); err != nil {
			g.lastErr = err
		}
	})

	p.Section("Visualization")
	g.widgetRadius = p.AddCheckbox("Show radius", true)
	g.widgetCorners = p.AddCheckbox("Show corners", true)
	g.widgetVelocity = p.AddCheckbox("Show velocity", false)
	g.panel = p
}

// tunedConfig copies cfg with the panel values applied.
func (g *Game) tunedConfig() *simulation.Config {
	cfg := *g.cfg
	pc := cfg.Planner
	pc.Mutations = append([]string(nil), pc.Mutations...)
	pc.PopulationSize = g.widgetPopulation.Int()
	pc.Iterations = g.widgetIterations.Int()
	pc.PathLength = g.widgetPathLength.Int()
	pc.MutationProbability = g.widgetMutationProb.Value
	pc.RotationRange = g.widgetRotation.Value
	pc.Weights = planner.Weights{
		Collision:   g.widgetCollision.Value,
		EndDistance: g.widgetEndDistance.Value,
		Jerk:        g.widgetJerk.Value,
	}
	pc.Elite = min(pc.Elite, pc.PopulationSize)
	pc.TruncationKeep = min(pc.TruncationKeep, pc.PopulationSize)
	cfg.Planner = pc
	cfg.AgentSpeed = g.widgetSpeed.Value
	return &cfg
}

// restart stops the running crowd and starts a new one from the panel values.
func (g *Game) restart() error {
	cfg := g.tunedConfig()
	steering, err := cfg.BuildSteering(nil, g.logger)
	if err != nil {
		return fmt.Errorf("failed to build steering: %w", err)
	}
	crowd, err := simulation.NewCrowd(g.ctx, cfg, steering, append([]simulation.Option{simulation.WithLogger(g.logger)}, g.opts...)...)
	if err != nil {
		return fmt.Errorf("failed to start crowd: %w", err)
	}
	spawns, err := cfg.Layout()
	if err != nil {
		_ = crowd.Stop(g.ctx)
		return err
	}
	if g.crowd != nil {
		if err := g.crowd.Stop(g.ctx); err != nil {
			g.logger.Warnf("stopping previous crowd: %v", err)
		}
	}
	g.crowd = crowd
	g.pending = false
	g.lastErr = nil
	g.cam = fitCamera(spawns, cfg.PixelsPerUnit, cfg.WindowWidth, cfg.WindowHeight)
	if snap, err := crowd.Current(g.ctx); err == nil {
		g.lastState = snap
	}
	g.logger.Infof("crowd restarted: %d agents, population %d, %d iterations",
		cfg.Agents, cfg.Planner.PopulationSize, cfg.Planner.Iterations)
	return nil
}

// Stop releases the crowd's actor system.
func (g *Game) Stop() error {
	if g.crowd == nil {
		return nil
	}
	return g.crowd.Stop(g.ctx)
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()

	// Retrieve the latest state without blocking
	select {
	case snap := <-g.crowd.Snapshots():
		g.lastState = snap
		g.pending = false
	default:
	}

	// One tick in flight at a time, frozen once everybody arrived
	run := !g.widgetPaused.Value || g.stepOnce
	if run && !g.pending && !g.lastState.Done() {
		if err := g.crowd.Tick(g.ctx); err != nil {
			g.lastErr = err
			return nil
		}
		g.pending = true
		g.stepOnce = false
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	for _, a := range g.lastState.Agents {
		g.drawAgent(screen, a)
	}

	g.panel.Draw(screen)
	g.drawStatsBar(screen)

	if g.lastErr != nil {
		ebitenutil.DebugPrintAt(screen, "ERROR: "+g.lastErr.Error(), int(panelWidth+20), g.cfg.WindowHeight-20)
	}
	if g.lastState.Done() {
		msg := fmt.Sprintf("ALL ARRIVED\nafter %d ticks", g.lastState.Tick)
		ebitenutil.DebugPrintAt(screen, msg, g.cfg.WindowWidth/2-40, g.cfg.WindowHeight/2)
	}

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nTick: %d\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.lastState.Tick,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, g.cfg.WindowWidth-150, 60)
}

func (g *Game) drawAgent(screen *ebiten.Image, a simulation.AgentState) {
	x, y := g.cam.toScreen(a.Position)
	r := float32(a.Radius * g.cam.scale)

	dx, dy := g.cam.toScreen(a.Destination)
	vector.StrokeLine(screen, dx-4, dy-4, dx+4, dy+4, 1, destinationColor, true)
	vector.StrokeLine(screen, dx-4, dy+4, dx+4, dy-4, 1, destinationColor, true)

	if g.widgetCorners.Value && !a.Arrived {
		cx, cy := g.cam.toScreen(a.Corner)
		vector.StrokeLine(screen, x, y, cx, cy, 1, cornerColor, true)
	}
	if g.widgetRadius.Value {
		vector.StrokeCircle(screen, x, y, r, 1, radiusColor, true)
	}
	if g.widgetVelocity.Value {
		// velocity is a per-tick displacement, scaled up to one second
		vx, vy := g.cam.toScreen(a.Position.Add(a.Velocity.Mul(1 / g.cfg.TickInterval)))
		vector.StrokeLine(screen, x, y, vx, vy, 1, velocityColor, true)
	}

	sprite := walkerSprite
	if a.Arrived {
		sprite = arrivedSprite
	}
	op := &ebiten.DrawImageOptions{}
	w, h := sprite.Bounds().Dx(), sprite.Bounds().Dy()
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	// sprites face up, the screen angle of up is -pi/2
	op.GeoM.Rotate(g.cam.screenAngle(a.Forward) + math.Pi/2)
	if s := 2 * float64(r) / float64(w); s > 1 {
		op.GeoM.Scale(s, s)
	}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(sprite, op)
}

// drawStatsBar shows arrived against moving agents.
func (g *Game) drawStatsBar(screen *ebiten.Image) {
	total := float32(len(g.lastState.Agents))
	if total == 0 {
		return
	}
	arrived := float32(g.lastState.Arrived)

	barWidth := float32(200.0)
	barHeight := float32(20.0)
	x := float32(screen.Bounds().Dx()) - barWidth - 10
	y := float32(10.0)

	doneW := barWidth * arrived / total
	vector.FillRect(screen, x, y, doneW, barHeight, color.RGBA{R: 90, G: 200, B: 90, A: 255}, true)
	vector.FillRect(screen, x+doneW, y, barWidth-doneW, barHeight, color.RGBA{R: 0, G: 140, B: 255, A: 255}, true)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d arrived", int(arrived)), int(x), int(y+barHeight+5))
	moving := fmt.Sprintf("%d", int(total-arrived))
	textOffset := float32(len(moving) * 8)
	ebitenutil.DebugPrintAt(screen, moving, int(x+barWidth-textOffset), int(y+barHeight+5))
}

func (g *Game) Layout(w, h int) (int, int) { return g.cfg.WindowWidth, g.cfg.WindowHeight }
