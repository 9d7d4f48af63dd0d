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
	"encoding/json"
	"os"
)

// SolverDefaults are the default solver parameters. cmd/compute does
// not read them: its flags carry their own defaults.
type SolverDefaults struct {
	BeamwidthFactor [2]float64 `json:"beamwidthFactor"` // (horizontal, vertical) k
	ThreshWidth     float64    `json:"threshWidth"`     // max. fitted/expected width ratio
	TimeAvg         string     `json:"timeAvg"`         // "none", "median", "mean"
	NumChunks       int        `json:"numChunks"`       // frequency chunks for the gains path
	UseWeights      bool       `json:"useWeights"`      // use per-sample weights in the fit
}

// FitDefaults are the defaults of the Gauss-Newton beam fit.
type FitDefaults struct {
	MaxIter   int     `json:"maxIter"`   // iteration cap
	MinChange float64 `json:"minChange"` // relative parameter-change convergence tolerance
}

// Config for pointing-offset.
type Config struct {
	Solver *SolverDefaults `json:"solver"`
	Fit    *FitDefaults    `json:"fit"`
}

// Cfg is the globally-accessible configuration (pre-set).
var Cfg = &Config{
	Solver: &SolverDefaults{
		BeamwidthFactor: [2]float64{1.22, 1.22},
		ThreshWidth:     1.5,
		TimeAvg:         "none",
		NumChunks:       1,
		UseWeights:      true,
	},
	Fit: &FitDefaults{
		MaxIter:   50,
		MinChange: 1e-8,
	},
}

// ReadConfig from file, overlaying values onto the current defaults.
func ReadConfig(fname string) (err error) {
	var data []byte
	if data, err = os.ReadFile(fname); err == nil {
		err = json.Unmarshal(data, &Cfg)
	}
	return
}
