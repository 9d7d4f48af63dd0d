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
	"math"
	"testing"
)

// zeroElevationLocator always reports the calibrator at the fixed
// elevation elRad (the zero value puts it on the horizon, so
// cos(el_cal)=1 and cross-el equals az) — useful for isolating the
// az/el aggregation math from the astronomy.
type zeroElevationLocator struct{ elRad float64 }

func (z zeroElevationLocator) Elevation(*Target, float64, GeodeticLocation) (float64, error) {
	return z.elRad, nil
}

// TestAggregateBandWeighting is scenario S4.
func TestAggregateBandWeighting(t *testing.T) {
	ants := []*Antenna{{Name: "m000"}}
	beamsGains := map[string][]*Beam{
		"m000": {
			{Centre: [2]float64{0.1, 0.1}, StdCentre: [2]float64{0.01, 0.01}, Valid: true},
			{Centre: [2]float64{0.12, 0.1}, StdCentre: [2]float64{0.03, 0.03}, Valid: true},
		},
	}
	target := &Target{}
	scans := []*Scan{{PointingTime: []float64{0, 10}}}

	rows, err := Aggregate(ants, nil, beamsGains, target, scans, zeroElevationLocator{elRad: 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	wantAzDeg := (0.1/(0.01*0.01) + 0.12/(0.03*0.03)) / (1/(0.01*0.01) + 1/(0.03*0.03))
	wantAzArcmin := wantAzDeg * 60
	if math.Abs(rows[0].AzArcmin-wantAzArcmin) > 1e-3 {
		t.Errorf("AzArcmin = %v, want %v", rows[0].AzArcmin, wantAzArcmin)
	}
}

func TestAggregateNoValidBeams(t *testing.T) {
	ants := []*Antenna{{Name: "m000"}}
	beamsVis := map[string]*Beam{"m000": {Valid: false}}
	rows, err := Aggregate(ants, beamsVis, nil, &Target{}, nil, zeroElevationLocator{})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(rows[0].AzArcmin) || !math.IsNaN(rows[0].ElArcmin) || !math.IsNaN(rows[0].XElArcmin) {
		t.Errorf("expected NaN row for invalid fit, got %+v", rows[0])
	}
}

// TestAggregateCrossElBound is invariant 5.
func TestAggregateCrossElBound(t *testing.T) {
	ants := []*Antenna{{Name: "m000"}}
	beamsVis := map[string]*Beam{"m000": {Centre: [2]float64{0.2, -0.1}, Valid: true}}
	for _, elDeg := range []float64{0, 30, 60, 89} {
		rows, err := Aggregate(ants, beamsVis, nil, &Target{}, nil, zeroElevationLocator{elRad: elDeg * degToRad})
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(rows[0].XElArcmin) > math.Abs(rows[0].AzArcmin)+1e-9 {
			t.Errorf("at el=%v: |XEl|=%v > |Az|=%v", elDeg, rows[0].XElArcmin, rows[0].AzArcmin)
		}
	}
}

func TestWrapPiUsedByAggregate(t *testing.T) {
	ants := []*Antenna{{Name: "m000"}}
	// a centre outside (-180,180] should be wrapped before export.
	beamsVis := map[string]*Beam{"m000": {Centre: [2]float64{190, 0}, Valid: true}}
	rows, err := Aggregate(ants, beamsVis, nil, &Target{}, nil, zeroElevationLocator{})
	if err != nil {
		t.Fatal(err)
	}
	wantAzArcmin := -170 * 60.0
	if math.Abs(rows[0].AzArcmin-wantAzArcmin) > 1e-6 {
		t.Errorf("AzArcmin = %v, want %v (190deg wrapped to -170deg)", rows[0].AzArcmin, wantAzArcmin)
	}
}
