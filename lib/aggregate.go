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
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
)

const degToRad = 1.0 / radToDeg

// OffsetRow is one line of the output table (§3, §4.5).
type OffsetRow struct {
	Antenna   string
	AzArcmin  float64
	ElArcmin  float64
	XElArcmin float64
}

// weightedAxis returns the inverse-variance weighted mean of centres
// along one axis, using gonum/floats for the weighted dot products.
func weightedAxis(centres, std []float64) (mu float64, ok bool) {
	weights := make([]float64, len(std))
	for i, s := range std {
		if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return 0, false
		}
		weights[i] = 1 / (s * s)
	}
	wsum := floats.Sum(weights)
	if wsum <= 0 {
		return 0, false
	}
	weighted := make([]float64, len(centres))
	copy(weighted, centres)
	floats.Mul(weighted, weights)
	return floats.Sum(weighted) / wsum, true
}

// aggregateCentre forms the §4.5 per-antenna aggregated beam centre
// from the vis-path beam (single band) or the gains-path bands
// (inverse-variance weighted mean of valid sub-band centres).
func aggregateCentre(name string, beamVis *Beam, beamsGains []*Beam) (centre [2]float64, ok bool) {
	if beamsGains != nil {
		var valid []*Beam
		for _, b := range beamsGains {
			if b != nil && b.Valid {
				valid = append(valid, b)
			}
		}
		if len(valid) == 0 {
			log.Printf("pointing-offset: antenna %q has no valid sub-band fit, emitting NaN row", name)
			return [2]float64{}, false
		}
		if len(valid) == 1 {
			return valid[0].Centre, true
		}
		for axis := 0; axis < 2; axis++ {
			centresA := make([]float64, len(valid))
			stdA := make([]float64, len(valid))
			for i, b := range valid {
				centresA[i] = b.Centre[axis]
				stdA[i] = b.StdCentre[axis]
			}
			mu, axOK := weightedAxis(centresA, stdA)
			if !axOK {
				log.Printf("pointing-offset: antenna %q sub-band uncertainties unusable, emitting NaN row", name)
				return [2]float64{}, false
			}
			centre[axis] = mu
		}
		return centre, true
	}

	if beamVis == nil || !beamVis.Valid {
		log.Printf("pointing-offset: antenna %q has no valid fit, emitting NaN row", name)
		return [2]float64{}, false
	}
	return beamVis.Centre, true
}

// wrapDeg wraps a degree-valued angle into (-180, 180] by delegating
// to the radian wrap_pi utility (Design Notes: "define one wrap_pi(a)
// utility and use it uniformly").
func wrapDeg(deg float64) float64 {
	return WrapPi(deg*degToRad) * radToDeg
}

// Aggregate implements §4.5: sub-band weighting, angle wrapping,
// deprojection to az/el/cross-el, and output-row construction in
// antenna-index order. beamsGains is nil on the vis path; beamsVis is
// nil on the gains path.
func Aggregate(
	ants []*Antenna,
	beamsVis map[string]*Beam,
	beamsGains map[string][]*Beam,
	target *Target,
	scans []*Scan,
	loc GeodeticLocator,
) ([]OffsetRow, error) {
	epoch := medianEpoch(scans)
	rows := make([]OffsetRow, len(ants))

	for i, ant := range ants {
		rows[i].Antenna = ant.Name

		var gains []*Beam
		if beamsGains != nil {
			gains = beamsGains[ant.Name]
		}
		var vis *Beam
		if beamsVis != nil {
			vis = beamsVis[ant.Name]
		}

		centre, ok := aggregateCentre(ant.Name, vis, gains)
		if !ok {
			rows[i].AzArcmin = math.NaN()
			rows[i].ElArcmin = math.NaN()
			rows[i].XElArcmin = math.NaN()
			continue
		}

		dAz := wrapDeg(centre[0])
		dEl := wrapDeg(centre[1])

		elCal, err := loc.Elevation(target, epoch, ant.Location)
		if err != nil {
			return nil, err
		}
		dXel := dAz * math.Cos(elCal)

		rows[i].AzArcmin = dAz * 60
		rows[i].ElArcmin = dEl * 60
		rows[i].XElArcmin = dXel * 60
	}

	return rows, nil
}
