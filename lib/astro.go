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
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// GeodeticLocator resolves the calibrator's elevation above the
// horizon as seen from one antenna at a given epoch, per §4.5
// ("the calibrator elevation at the median pointing timestamp
// computed for that antenna"). The distilled contract treats this as
// a black box computed by katpoint; MeeusLocator below makes it a
// first-class, grounded component using topocentric transforms.
type GeodeticLocator interface {
	Elevation(target *Target, epochUnixSeconds float64, loc GeodeticLocation) (elRad float64, err error)
}

// MeeusLocator computes topocentric elevation from RA/Dec via
// Greenwich apparent sidereal time and the standard hour-angle
// transform to horizontal coordinates.
type MeeusLocator struct{}

// Elevation implements GeodeticLocator.
func (MeeusLocator) Elevation(target *Target, epochUnixSeconds float64, loc GeodeticLocation) (float64, error) {
	t := time.Unix(int64(epochUnixSeconds), 0).UTC()
	jd := julian.TimeToJD(t)

	gst := sidereal.Apparent(jd) // unit.Time, Greenwich apparent sidereal time
	lst := gst.Angle() + unit.AngleFromRad(loc.LonRad)

	ha := lst.Rad() - target.RARad // hour angle, radians

	sinEl := math.Sin(loc.LatRad)*math.Sin(target.DecRad) +
		math.Cos(loc.LatRad)*math.Cos(target.DecRad)*math.Cos(ha)
	sinEl = math.Max(-1, math.Min(1, sinEl))
	return math.Asin(sinEl), nil
}

// medianEpoch returns the median pointing timestamp for one antenna
// across a set of scans, matching §4.5's evaluation epoch.
func medianEpoch(scans []*Scan) float64 {
	var times []float64
	for _, s := range scans {
		times = append(times, s.PointingTime...)
	}
	if len(times) == 0 {
		return 0
	}
	sorted := append([]float64(nil), times...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
