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

// Vec3 is a 3D vector (antenna ECEF position).
type Vec3 [3]float64

// NewVec3 creates a new 3D vector.
func NewVec3(x, y, z float64) (v Vec3) {
	v[0], v[1], v[2] = x, y, z
	return
}

// String returns a human-readable vector.
func (v Vec3) String() string {
	return fmt.Sprintf("[%f,%f,%f]", v[0], v[1], v[2])
}

// Length of the vector.
func (v Vec3) Length() float64 {
	x, y, z := v[0], v[1], v[2]
	return math.Sqrt(x*x + y*y + z*z)
}

// Sub (subtract) two vectors.
func (v Vec3) Sub(u Vec3) (d Vec3) {
	d[0] = v[0] - u[0]
	d[1] = v[1] - u[1]
	d[2] = v[2] - u[2]
	return
}

// GeodeticLocation is the (latitude, longitude, altitude) of an antenna,
// derived once by the external geometry constructor.
type GeodeticLocation struct {
	LatRad float64 // geodetic latitude (radians)
	LonRad float64 // geodetic longitude (radians)
	AltM   float64 // altitude above the reference ellipsoid (m)
}

// Antenna is a geographically located dish. Immutable once constructed
// (spec §3): nothing in lib mutates an *Antenna after ConstructAntennas
// returns it.
type Antenna struct {
	Name       string           // antenna name, as used by the output table
	Position   Vec3             // cartesian (ECEF) position (m)
	DiameterM  float64          // dish diameter (m)
	BeamwidthK [2]float64       // nominal beamwidth factor k, (horizontal, vertical)
	Location   GeodeticLocation // geodetic location, used for az/el deprojection
}

// AntennaConfig is the raw per-antenna configuration handed to
// ConstructAntennas by the (out-of-scope) configuration reader.
type AntennaConfig struct {
	Name            string  `json:"name"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Z               float64 `json:"z"`
	DiameterM       float64 `json:"diameterM"`
	BeamwidthFactor float64 `json:"beamwidthFactor"` // single k; broadcast to both axes
	LatRad          float64 `json:"latRad"`
	LonRad          float64 `json:"lonRad"`
	AltM            float64 `json:"altM"`
}

// ConstructAntennas builds the immutable antenna list from configuration.
// This is the external geometry constructor referenced in spec §3 and §6;
// it is the one place an Antenna is created.
func ConstructAntennas(cfgs []AntennaConfig) ([]*Antenna, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("pointing-offset: no antennas in configuration")
	}
	ants := make([]*Antenna, len(cfgs))
	for i, c := range cfgs {
		if c.DiameterM <= 0 {
			return nil, fmt.Errorf("pointing-offset: antenna %q has non-positive diameter", c.Name)
		}
		k := c.BeamwidthFactor
		if k == 0 {
			k = 1.22
		}
		ants[i] = &Antenna{
			Name:       c.Name,
			Position:   NewVec3(c.X, c.Y, c.Z),
			DiameterM:  c.DiameterM,
			BeamwidthK: [2]float64{k, k},
			Location: GeodeticLocation{
				LatRad: c.LatRad,
				LonRad: c.LonRad,
				AltM:   c.AltM,
			},
		}
	}
	return ants, nil
}

// Target is the calibrator the array is pointed at, shared by all scans.
type Target struct {
	RARad  float64 `json:"raRad"`  // right ascension (radians, ICRS)
	DecRad float64 `json:"decRad"` // declination (radians, ICRS)
	Name   string  `json:"name"`
}
