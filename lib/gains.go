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
	"log"
)

// GainSolver is the external gain-calibration collaborator of §4.6: a
// linear-algebra Jones-matrix ("G" term) solve against the calibrator
// model, out of scope for this module. Real integrations wire a solver
// that talks to the calibration package; StubGainSolver below is a
// deterministic test double.
type GainSolver interface {
	Solve(scan *Scan, numChunks int) ([]*GainTable, error)
}

// GainTable is one frequency chunk's solved complex gains for one scan.
// Gain and Weight are indexed [T][A][receptor1][receptor2]; only the
// diagonal (parallel-hand) elements are populated by §4.6 solvers.
type GainTable struct {
	Antenna   []string
	Time      []float64
	Gain      [][][2][2]complex128
	Weight    [][][2][2]float64
	Frequency float64
}

// SplitChunks partitions nchan channels into numChunks equal contiguous
// chunks. ok is false when nchan is not divisible by numChunks, which
// per §4.6 triggers the caller's fallback to a single chunk.
func SplitChunks(nchan, numChunks int) (chunks [][2]int, ok bool) {
	if numChunks <= 0 {
		return nil, false
	}
	if numChunks == 1 {
		return [][2]int{{0, nchan}}, true
	}
	if nchan%numChunks != 0 {
		return nil, false
	}
	width := nchan / numChunks
	chunks = make([][2]int, numChunks)
	for c := range chunks {
		chunks[c] = [2]int{c * width, (c + 1) * width}
	}
	return chunks, true
}

// ResolveChunks applies the §4.6 non-divisibility fallback, logging a
// warning and returning 1 chunk covering the whole band when requested
// does not evenly divide nchan.
func ResolveChunks(nchan, requested int) int {
	if _, ok := SplitChunks(nchan, requested); !ok {
		log.Printf("pointing-offset: %d channels not divisible by num_chunks=%d, falling back to 1 chunk", nchan, requested)
		return 1
	}
	return requested
}

// StubGainSolver is a deterministic test double for GainSolver: it
// synthesizes zero-phase diagonal gains of magnitude Amplitude (1 when
// Amplitude is zero) with unit weights, one table per chunk of the
// resolved partitioning, one time sample per entry of scan.Time.
// Useful for exercising ReduceFromGains without a real calibration
// backend.
type StubGainSolver struct {
	Amplitude float64
}

func (s StubGainSolver) Solve(scan *Scan, numChunks int) ([]*GainTable, error) {
	if len(scan.Frequency) == 0 {
		return nil, fmt.Errorf("pointing-offset: StubGainSolver: scan has no channels")
	}
	n := ResolveChunks(len(scan.Frequency), numChunks)
	chunks, _ := SplitChunks(len(scan.Frequency), n)

	amp := s.Amplitude
	if amp == 0 {
		amp = 1
	}
	numAnt := len(scan.Antennas)
	names := make([]string, numAnt)
	for i, a := range scan.Antennas {
		names[i] = a.Name
	}

	tables := make([]*GainTable, len(chunks))
	for c, rng := range chunks {
		lo, hi := rng[0], rng[1]
		fSum := 0.0
		for _, f := range scan.Frequency[lo:hi] {
			fSum += f
		}
		fMean := fSum / float64(hi-lo)

		gain := make([][][2][2]complex128, len(scan.Time))
		weight := make([][][2][2]float64, len(scan.Time))
		for t := range scan.Time {
			gain[t] = make([][2][2]complex128, numAnt)
			weight[t] = make([][2][2]float64, numAnt)
			for a := 0; a < numAnt; a++ {
				gain[t][a][0][0] = complex(amp, 0)
				gain[t][a][1][1] = complex(amp, 0)
				weight[t][a][0][0] = 1
				weight[t][a][1][1] = 1
			}
		}
		tables[c] = &GainTable{
			Antenna:   names,
			Time:      scan.Time,
			Gain:      gain,
			Weight:    weight,
			Frequency: fMean,
		}
	}
	return tables, nil
}
