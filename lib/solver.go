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
)

// SolverConfig carries the run-level solver parameters of §4.4.
type SolverConfig struct {
	BeamwidthFactor [2]float64 // (k_h, k_v)
	ThreshWidth     float64
	UseWeights      bool
}

// ExpectedWidth returns the initial FWHM guess, in degrees, for a dish
// of diameter D at representative frequency freq, per §4.4:
//
//	w0 = sqrt(2) * k * lambda / D
//
// The sqrt(2) factor accounts for the interferometric (voltage) beam
// being narrower than the power beam.
func ExpectedWidth(freq, diameter float64, k [2]float64) (w [2]float64) {
	lambda := C / freq
	wRad := math.Sqrt2 * lambda / diameter
	wDeg := wRad * radToDeg
	return [2]float64{k[0] * wDeg, k[1] * wDeg}
}

// Solver drives per-antenna (and per-sub-band) beam fits over all
// scans of one run, per §4.4.
type Solver struct {
	Reduced  *Reduced
	Antennas []*Antenna
	Config   SolverConfig
}

// antennaIndex maps antenna name to its index in Solver.Antennas.
func (s *Solver) antennaIndex(name string) int {
	for i, a := range s.Antennas {
		if a.Name == name {
			return i
		}
	}
	return -1
}

func (s *Solver) stdYFor(weights []float64) []float64 {
	std := make([]float64, len(weights))
	for i, w := range weights {
		if s.Config.UseWeights && w > 0 {
			std[i] = math.Sqrt(1 / w)
		} else {
			std[i] = 1
		}
	}
	return std
}

func xColumn(x [][][2]float64, a int) [][2]float64 {
	col := make([][2]float64, len(x))
	for si := range x {
		col[si] = x[si][a]
	}
	return col
}

// FitVis implements the §4.4 vis path: one beam per antenna at the
// highest-frequency band (Reduced.F[0] on the vis path). Fits with
// std_y=1; --use_weights only applies to the gains path.
func (s *Solver) FitVis() (map[string]*Beam, error) {
	if len(s.Reduced.F) == 0 || s.Reduced.F[0] <= 0 || math.IsInf(s.Reduced.F[0], 0) {
		return nil, fmt.Errorf("pointing-offset: FitVis: invalid representative frequency")
	}
	n := len(s.Antennas)
	results := make([]*Beam, n)
	errs := make([]error, n)

	pool := newFitPool()
	for i, ant := range s.Antennas {
		i, ant := i, ant
		pool.Submit(func() {
			if len(s.Reduced.Y[i]) == 0 {
				errs[i] = fmt.Errorf("pointing-offset: FitVis: antenna %q has no response data", ant.Name)
				return
			}
			w0 := ExpectedWidth(s.Reduced.F[0], ant.DiameterM, ant.BeamwidthK)
			b := NewBeam([2]float64{0, 0}, w0, 1)
			x := xColumn(s.Reduced.X, i)
			y := s.Reduced.Y[i][0]
			if err := b.Fit(x, y, nil, s.Config.ThreshWidth); err != nil {
				errs[i] = fmt.Errorf("pointing-offset: FitVis: antenna %q: %w", ant.Name, err)
				return
			}
			results[i] = b
		})
	}
	pool.StopAndWait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]*Beam, n)
	for i, ant := range s.Antennas {
		out[ant.Name] = results[i]
	}
	return out, nil
}

// FitGains implements the §4.4 gains path: per antenna, per remaining
// sub-band (dropping the first/last band-edge sub-bands when C>2).
func (s *Solver) FitGains() (map[string][]*Beam, error) {
	numChunks := len(s.Reduced.F)
	if numChunks == 0 {
		return nil, fmt.Errorf("pointing-offset: FitGains: no sub-bands")
	}
	lo, hi := 0, numChunks
	if numChunks > 2 {
		lo, hi = 1, numChunks-1
	}
	for _, f := range s.Reduced.F[lo:hi] {
		if f <= 0 || math.IsInf(f, 0) {
			return nil, fmt.Errorf("pointing-offset: FitGains: invalid sub-band frequency")
		}
	}

	n := len(s.Antennas)
	results := make([][]*Beam, n)
	errs := make([]error, n)

	pool := newFitPool()
	for i, ant := range s.Antennas {
		i, ant := i, ant
		pool.Submit(func() {
			beams := make([]*Beam, 0, hi-lo)
			x := xColumn(s.Reduced.X, i)
			for c := lo; c < hi; c++ {
				w0 := ExpectedWidth(s.Reduced.F[c], ant.DiameterM, ant.BeamwidthK)
				b := NewBeam([2]float64{0, 0}, w0, 1)
				y := s.Reduced.Y[i][c]
				std := s.stdYFor(s.Reduced.W[i][c])
				if err := b.Fit(x, y, std, s.Config.ThreshWidth); err != nil {
					errs[i] = fmt.Errorf("pointing-offset: FitGains: antenna %q band %d: %w", ant.Name, c, err)
					return
				}
				beams = append(beams, b)
			}
			results[i] = beams
		})
	}
	pool.StopAndWait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string][]*Beam, n)
	for i, ant := range s.Antennas {
		out[ant.Name] = results[i]
	}
	return out, nil
}
