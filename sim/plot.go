package sim

import (
	"fmt"
	"image/color"

	locsim "github.com/milosgajdos/go-locsim"
	"github.com/milosgajdos/go-locsim/landmark"
	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NewTrajectoryPlot creates new plot of the simulation from the three data sources:
// m:         landmark map
// poses:     true robot pose history
// particles: belief particle poses (can be empty)
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * no robot poses are supplied
// * gonum plot fails to be created
func NewTrajectoryPlot(m *landmark.Map, poses, particles []locsim.Pose) (*plot.Plot, error) {
	if len(poses) == 0 {
		return nil, fmt.Errorf("invalid pose history: empty")
	}

	p := plot.New()

	p.Title.Text = "Simulation"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	legend := plot.NewLegend()

	legend.Top = true

	p.Legend = legend

	// Make a scatter plotter for landmarks
	if m.Len() > 0 {
		lms := m.Landmarks()
		lmData := make(plotter.XYs, len(lms))
		for i, l := range lms {
			lmData[i].X = l.Pos[0]
			lmData[i].Y = l.Pos[1]
		}
		lmScatter, err := plotter.NewScatter(lmData)
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter: %v", err)
		}
		lmScatter.GlyphStyle.Color = color.RGBA{R: 255, G: 165, A: 255}
		lmScatter.Shape = draw.PyramidGlyph{}
		lmScatter.GlyphStyle.Radius = vg.Points(5)

		p.Add(lmScatter)
		p.Legend.Add("landmarks", lmScatter)
	}

	// Make a line plotter for true trajectory
	path, err := plotter.NewLine(makePoints(poses))
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %v", err)
	}
	path.LineStyle.Color = color.RGBA{B: 255, A: 255}
	path.LineStyle.Width = vg.Points(1)

	p.Add(path)
	p.Legend.Add("robot", path)

	// Make a scatter plotter for particles
	if len(particles) > 0 {
		partScatter, err := plotter.NewScatter(makePoints(particles))
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter: %v", err)
		}
		partScatter.GlyphStyle.Color = color.RGBA{R: 169, G: 169, B: 169, A: 255}
		partScatter.Shape = draw.CrossGlyph{}
		partScatter.GlyphStyle.Radius = vg.Points(2)

		p.Add(partScatter)
		p.Legend.Add("particles", partScatter)
	}

	// keep every landmark, pose and particle inside the axes with a margin
	b := plotBound(m, poses, particles).Pad(plotMargin)
	p.X.Min, p.X.Max = b.Min[0], b.Max[0]
	p.Y.Min, p.Y.Max = b.Min[1], b.Max[1]

	return p, nil
}

// plotMargin is the margin around plotted data
const plotMargin = 1.0

// plotBound returns the bounding box of poses, particles and map landmarks.
// poses must not be empty.
func plotBound(m *landmark.Map, poses, particles []locsim.Pose) orb.Bound {
	b := orb.Point{poses[0].X, poses[0].Y}.Bound()
	for _, pose := range poses[1:] {
		b = b.Extend(orb.Point{pose.X, pose.Y})
	}
	for _, pose := range particles {
		b = b.Extend(orb.Point{pose.X, pose.Y})
	}

	if m.Len() > 0 {
		b = b.Union(m.Bound())
	}

	return b
}

func makePoints(poses []locsim.Pose) plotter.XYs {
	pts := make(plotter.XYs, len(poses))
	for i, pose := range poses {
		pts[i].X = pose.X
		pts[i].Y = pose.Y
	}

	return pts
}
