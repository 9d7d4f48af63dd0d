//----------------------------------------------------------------------
// This file is part of pointing-offset.
// Copyright (C) 2024-present Bernd Fix >Y<,  DO3YQ
//
// pointing-offset is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// pointing-offset is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package lib

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotBeamFit renders a scatter of the observed per-scan responses
// (x, y) with the fitted Gaussian's axis-aligned contour overlaid, at
// path. Never called from the solver or aggregator (§5's "no I/O
// inside the core"); only cmd/compute calls it, and only when
// --save_offset requests diagnostics.
func PlotBeamFit(beam *Beam, x [][2]float64, y []float64, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("beam fit (valid=%v)", beam.Valid)
	p.X.Label.Text = "delta az (deg)"
	p.Y.Label.Text = "delta el (deg)"

	pts := make(plotter.XYs, len(x))
	for i, xy := range x {
		pts[i] = plotter.XY{X: xy[0], Y: xy[1]}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("pointing-offset: PlotBeamFit: %w", err)
	}
	p.Add(scatter)

	contour, err := beamContour(beam, 64)
	if err != nil {
		return fmt.Errorf("pointing-offset: PlotBeamFit: %w", err)
	}
	line, err := plotter.NewLine(contour)
	if err != nil {
		return fmt.Errorf("pointing-offset: PlotBeamFit: %w", err)
	}
	p.Add(line)
	p.Legend.Add("samples", scatter)
	p.Legend.Add("half-max contour", line)

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// beamContour traces the ellipse where g(x) = h/2 (the half-max
// contour, i.e. the FWHM boundary) for the fitted beam.
func beamContour(beam *Beam, n int) (plotter.XYs, error) {
	sigma1 := FWHMToSigma(beam.Width[0])
	sigma2 := FWHMToSigma(beam.Width[1])
	r := math.Sqrt(2 * math.Ln2) // half-max radius in units of sigma

	pts := make(plotter.XYs, n+1)
	for i := 0; i <= n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = plotter.XY{
			X: beam.Centre[0] + r*sigma1*math.Cos(theta),
			Y: beam.Centre[1] + r*sigma2*math.Sin(theta),
		}
	}
	return pts, nil
}
