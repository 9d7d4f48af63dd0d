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

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bfix/pointing-offset/lib"
)

// rawScan is the on-disk JSON shape of one scan. Reading a real
// MeasurementSet is the out-of-scope external collaborator of spec
// §1/§6; rawScan is the narrow interface an integration replaces with
// a MS-backed reader. Complex visibilities are (re, im) pairs.
type rawScan struct {
	Vis          [][][][2]float64 `json:"vis"` // [T][B][Ch][P]{re,im}
	Weight       [][][][]float64  `json:"weight"`
	Time         []float64        `json:"time"`
	Pointing     [][][2]float64   `json:"pointing"`     // [T_p][A][2]
	PointingTime []float64        `json:"pointingTime"` // [T_p]
	Antenna1     []int            `json:"antenna1"`
	Antenna2     []int            `json:"antenna2"`
	Frequency    []float64        `json:"frequency"`
	Polarisation []string         `json:"polarisation"`
}

// runFile is the on-disk JSON shape of one calibration observation:
// the shared target and antenna list, plus one rawScan per discrete
// offset pointing.
type runFile struct {
	Target   lib.Target          `json:"target"`
	Antennas []lib.AntennaConfig `json:"antennas"`
	Scans    []rawScan           `json:"scans"`
}

// loadRun reads <msdir>/scans.json, the adapter's scan-exchange
// format (§6 "inbound data").
func loadRun(msdir string) (*runFile, error) {
	path := filepath.Join(msdir, "scans.json")
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pointing-offset: reading %q: %w", path, err)
	}
	var rf runFile
	if err := json.Unmarshal(body, &rf); err != nil {
		return nil, fmt.Errorf("pointing-offset: parsing %q: %w", path, err)
	}
	if len(rf.Scans) == 0 {
		return nil, fmt.Errorf("pointing-offset: %q has no scans", path)
	}
	return &rf, nil
}

// toComplex converts a [T][B][Ch][P]{re,im} array into complex128.
func toComplex(raw [][][][2]float64) [][][][]complex128 {
	out := make([][][][]complex128, len(raw))
	for t, bs := range raw {
		out[t] = make([][][]complex128, len(bs))
		for b, chs := range bs {
			out[t][b] = make([][]complex128, len(chs))
			for ch, ps := range chs {
				out[t][b][ch] = make([]complex128, len(ps))
				for p, v := range ps {
					out[t][b][ch][p] = complex(v[0], v[1])
				}
			}
		}
	}
	return out
}

// selectChannelsInPlace restricts the channel axis (index 2) of vis
// and weight to the retained channel indices.
func selectChannelsInPlace(vis [][][][]complex128, weight [][][][]float64, channels []int) ([][][][]complex128, [][][][]float64) {
	outVis := make([][][][]complex128, len(vis))
	outW := make([][][][]float64, len(weight))
	for t := range vis {
		outVis[t] = make([][][]complex128, len(vis[t]))
		outW[t] = make([][][]float64, len(weight[t]))
		for b := range vis[t] {
			ch := vis[t][b]
			w := weight[t][b]
			newCh := make([][]complex128, len(channels))
			newW := make([][]float64, len(channels))
			for i, c := range channels {
				if c < len(ch) {
					newCh[i] = ch[c]
				}
				if c < len(w) {
					newW[i] = w[c]
				}
			}
			outVis[t][b] = newCh
			outW[t][b] = newW
		}
	}
	return outVis, outW
}

// buildScans converts the on-disk run file into lib.Scan values,
// applying the §4.1 RFI mask and channel-selection array utilities.
func buildScans(rf *runFile, ants []*lib.Antenna, target *lib.Target, applyMask bool, rfiFile string, fLoHz, fHiHz float64) ([]*lib.Scan, error) {
	scans := make([]*lib.Scan, len(rf.Scans))
	for i, rs := range rf.Scans {
		freqs := rs.Frequency
		channels := make([]int, len(freqs))
		for c := range channels {
			channels[c] = c
		}
		var err error
		if applyMask {
			if freqs, channels, err = lib.ApplyRFIMask(freqs, rfiFile); err != nil {
				return nil, err
			}
		}
		if fLoHz > 0 && fHiHz > 0 {
			freqs, channels = lib.SelectChannels(freqs, channels, fLoHz, fHiHz)
		}

		vis := toComplex(rs.Vis)
		weight := rs.Weight
		vis, weight = selectChannelsInPlace(vis, weight, channels)

		// Interpolate antenna pointings onto the visibility timestamps
		// when the two time axes differ (§4.1), so downstream code can
		// rely on the §3 invariant that they are time-aligned.
		pointing := rs.Pointing
		pointingTime := rs.PointingTime
		if len(pointingTime) != len(rs.Time) {
			pointing = lib.InterpolatePointings(rs.Pointing, rs.PointingTime, rs.Time)
			pointingTime = rs.Time
		}

		scans[i] = &lib.Scan{
			Vis:          vis,
			Weight:       weight,
			Time:         rs.Time,
			Pointing:     pointing,
			PointingTime: pointingTime,
			Antenna1:     rs.Antenna1,
			Antenna2:     rs.Antenna2,
			Frequency:    freqs,
			Polarisation: rs.Polarisation,
			Target:       target,
			Antennas:     ants,
		}
	}
	return scans, nil
}
