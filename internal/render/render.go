// Package render draws trajectory overlay figures natively, as an
// alternative to invoking the external plot entry point.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/goalflow-lab/navrunner/internal/trajectory"
)

// Overlay colors match the external plot entry point: red for the base
// planner, green for the variant under evaluation.
var (
	baseColor   = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	secondColor = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	egoColor    = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
)

// Options configures a BEV figure.
type Options struct {
	// Title is the figure title, typically the scene token.
	Title string
	// RangeMeters is the half-extent of the BEV window. Zero means the
	// default 32 m, matching the external plot configuration.
	RangeMeters float64
	// BaseLabel and SecondLabel name the two planners in the legend.
	// The legend is only drawn when both trajectories are present.
	BaseLabel   string
	SecondLabel string
}

func (o Options) rangeMeters() float64 {
	if o.RangeMeters > 0 {
		return o.RangeMeters
	}
	return 32.0
}

func (o Options) baseLabel() string {
	if o.BaseLabel != "" {
		return o.BaseLabel
	}
	return "GoalFlow"
}

func (o Options) secondLabel() string {
	if o.SecondLabel != "" {
		return o.SecondLabel
	}
	return "SafeGoalFlow"
}

// Figure builds an ego-centric BEV plot with one or two trajectory
// overlays. base must be non-nil; second may be nil.
func Figure(base, second *trajectory.Trajectory, opts Options) (*plot.Plot, error) {
	if base == nil {
		return nil, fmt.Errorf("no base trajectory to plot")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Lateral (m)"
	p.Y.Label.Text = "Forward (m)"

	r := opts.rangeMeters()
	p.X.Min, p.X.Max = -r, r
	p.Y.Min, p.Y.Max = -r, r

	// Ego marker at the origin.
	ego, err := plotter.NewScatter(plotter.XYs{{X: 0, Y: 0}})
	if err != nil {
		return nil, err
	}
	ego.GlyphStyle.Shape = draw.PyramidGlyph{}
	ego.GlyphStyle.Color = egoColor
	ego.GlyphStyle.Radius = vg.Points(5)
	p.Add(ego)

	baseLine, basePts, err := trajectoryLine(base, baseColor)
	if err != nil {
		return nil, err
	}
	p.Add(baseLine, basePts)

	if second != nil {
		secondLine, secondPts, err := trajectoryLine(second, secondColor)
		if err != nil {
			return nil, err
		}
		p.Add(secondLine, secondPts)

		// Legend only when comparing two planners, as in the external plot.
		p.Legend.Add(opts.baseLabel(), baseLine, basePts)
		p.Legend.Add(opts.secondLabel(), secondLine, secondPts)
		p.Legend.Top = false
		p.Legend.Left = true
	}

	return p, nil
}

// Save renders the figure to a PNG file.
func Save(base, second *trajectory.Trajectory, opts Options, path string) error {
	p, err := Figure(base, second, opts)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save figure %s: %w", path, err)
	}
	return nil
}

// trajectoryLine converts a trajectory to a colored line-and-points
// overlay. Poses are in the ego frame (x forward, y lateral); the BEV
// figure draws forward pointing up, so the axes are swapped.
func trajectoryLine(traj *trajectory.Trajectory, c color.Color) (*plotter.Line, *plotter.Scatter, error) {
	pts := make(plotter.XYs, traj.Len())
	for i, pose := range traj.Poses {
		pts[i] = plotter.XY{X: pose.Y, Y: pose.X}
	}

	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, nil, err
	}
	line.Color = c
	line.Width = vg.Points(2)
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	return line, scatter, nil
}
