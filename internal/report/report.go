// Package report draws PNG charts of planner diagnostics and crowd runs.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lao-tseu-is-alive/go-ga-steering/internal/storage"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrNoData = errors.New("nothing to plot")

var (
	bestColor = color.RGBA{R: 0, G: 80, B: 255, A: 255}
	meanColor = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	goalColor = color.RGBA{R: 220, A: 255}
)

// FitnessHistory plots the best and mean fitness of every generation,
// averaged over the stored runs.
func FitnessHistory(avgs []storage.GenerationAverage, filename string) error {
	best := make(plotter.XYs, 0, len(avgs))
	mean := make(plotter.XYs, 0, len(avgs))
	for _, a := range avgs {
		// a generation whose runs all had empty populations has no best
		if !math.IsInf(a.Best, 0) {
			best = append(best, plotter.XY{X: float64(a.Generation), Y: a.Best})
		}
		mean = append(mean, plotter.XY{X: float64(a.Generation), Y: a.Mean})
	}
	if len(mean) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Fitness per generation (%d runs)", avgs[0].Runs)
	p.X.Label.Text = "generation"
	p.Y.Label.Text = "fitness"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true

	if err := addLine(p, "best", best, bestColor, 1.8); err != nil {
		return err
	}
	if err := addLine(p, "mean", mean, meanColor, 1.2); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, filename)
}

// BestPaths plots the best path of every generation of run, lighter for
// early generations, and the destination when given.
func BestPaths(run planner.RunLog, destination *geometry.Vector2D, filename string) error {
	if len(run.Records) == 0 {
		return ErrNoData
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Agent %d, tick %d: best path per generation", run.AgentID, run.Tick)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	last := len(run.Records) - 1
	for i, rec := range run.Records {
		if len(rec.BestPath) == 0 {
			continue
		}
		line, err := plotter.NewLine(toXYs(rec.BestPath))
		if err != nil {
			return err
		}
		shade := uint8(200 - 200*i/max(last, 1))
		line.Color = color.RGBA{R: shade, G: shade, B: 255, A: 255}
		line.Width = vg.Points(0.8)
		if rec.Final {
			line.Color = bestColor
			line.Width = vg.Points(2)
			p.Legend.Add("final", line)
		}
		p.Add(line)
	}
	if destination != nil {
		if err := addMarker(p, "destination", *destination, draw.CrossGlyph{}, goalColor); err != nil {
			return err
		}
	}
	equalAxes(p)
	return p.Save(6*vg.Inch, 6*vg.Inch, filename)
}

// Trajectories plots the positions each agent went through, with its start
// and its destination.
func Trajectories(tracks map[string][]geometry.Vector2D, destinations map[string]geometry.Vector2D, filename string) error {
	if len(tracks) == 0 {
		return ErrNoData
	}
	names := make([]string, 0, len(tracks))
	for name := range tracks {
		names = append(names, name)
	}
	sort.Strings(names)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Trajectories of %d agents", len(tracks))
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	for i, name := range names {
		track := tracks[name]
		if len(track) == 0 {
			continue
		}
		c := trackColor(i)
		if len(track) > 1 {
			line, err := plotter.NewLine(toXYs(track))
			if err != nil {
				return err
			}
			line.Color = c
			line.Width = vg.Points(1.2)
			p.Add(line)
		}
		if err := addMarker(p, "", track[0], draw.CircleGlyph{}, c); err != nil {
			return err
		}
		if dest, ok := destinations[name]; ok {
			if err := addMarker(p, "", dest, draw.CrossGlyph{}, c); err != nil {
				return err
			}
		}
	}
	equalAxes(p)
	return p.Save(8*vg.Inch, 8*vg.Inch, filename)
}

func toXYs(points []geometry.Vector2D) plotter.XYs {
	xy := make(plotter.XYs, len(points))
	for i, pt := range points {
		xy[i].X = pt.X
		xy[i].Y = pt.Y
	}
	return xy
}

func addLine(p *plot.Plot, label string, xy plotter.XYs, c color.Color, width float64) error {
	if len(xy) == 0 {
		return nil
	}
	line, err := plotter.NewLine(xy)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(width)
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func addMarker(p *plot.Plot, label string, at geometry.Vector2D, shape draw.GlyphDrawer, c color.Color) error {
	s, err := plotter.NewScatter(plotter.XYs{{X: at.X, Y: at.Y}})
	if err != nil {
		return err
	}
	s.GlyphStyle.Shape = shape
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(4)
	p.Add(s)
	if label != "" {
		p.Legend.Add(label, s)
	}
	return nil
}

// equalAxes widens the shorter axis so one world unit has the same length
// on both, then pads both by 5%.
func equalAxes(p *plot.Plot) {
	w := p.X.Max - p.X.Min
	h := p.Y.Max - p.Y.Min
	span := math.Max(math.Max(w, h), 1) * 1.1
	cx := (p.X.Min + p.X.Max) / 2
	cy := (p.Y.Min + p.Y.Max) / 2
	p.X.Min, p.X.Max = cx-span/2, cx+span/2
	p.Y.Min, p.Y.Max = cy-span/2, cy+span/2
}

var palette = []color.RGBA{
	{R: 0, G: 80, B: 255, A: 255},
	{R: 220, G: 0, B: 0, A: 255},
	{R: 0, G: 150, B: 0, A: 255},
	{R: 160, G: 0, B: 200, A: 255},
	{R: 255, G: 140, B: 0, A: 255},
	{R: 0, G: 170, B: 170, A: 255},
}

func trackColor(i int) color.RGBA { return palette[i%len(palette)] }
