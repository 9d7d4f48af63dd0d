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
	"math/cmplx"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// TimeAvg selects how a scan's per-antenna time series is collapsed to
// a single scalar.
type TimeAvg int

const (
	TimeAvgNone TimeAvg = iota
	TimeAvgMedian
	TimeAvgMean
)

// ParseTimeAvg parses the --time_avg flag value.
func ParseTimeAvg(s string) (TimeAvg, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return TimeAvgNone, nil
	case "median":
		return TimeAvgMedian, nil
	case "mean":
		return TimeAvgMean, nil
	default:
		return TimeAvgNone, fmt.Errorf("pointing-offset: unknown time_avg %q", s)
	}
}

// reduceTime collapses a time series to one scalar per the selected rule.
func reduceTime(avg TimeAvg, series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	switch avg {
	case TimeAvgMedian:
		cp := append([]float64(nil), series...)
		sort.Float64s(cp)
		return stat.Quantile(0.5, stat.Empirical, cp, nil)
	case TimeAvgMean:
		sum := 0.0
		for _, v := range series {
			sum += v
		}
		return sum / float64(len(series))
	default: // TimeAvgNone
		return series[0]
	}
}

// Scan is one observation at a single commanded pointing offset.
type Scan struct {
	Vis          [][][][]complex128 // [T][B][Ch][P]
	Weight       [][][][]float64    // [T][B][Ch][P]
	Time         []float64          // [T], seconds
	Pointing     [][][2]float64     // [T_p][A][2], radians, (az, el) offset
	PointingTime []float64          // [T_p]
	Antenna1     []int              // [B]
	Antenna2     []int              // [B]
	Frequency    []float64          // [Ch]
	Polarisation []string           // [P]
	Target       *Target            // shared across scans
	Antennas     []*Antenna         // shared across scans
}

// Response is the sum type "Response = Vis | Gains" of the per-scan
// source-data polymorphism: both variants carry only what ReduceFromVis
// / ReduceFromGains needs, and downstream code is blind to which one it
// got.
type Response interface {
	isResponse()
}

// VisResponse is a scan reduced directly from visibilities.
type VisResponse struct {
	Scan *Scan
}

func (VisResponse) isResponse() {}

// GainsResponse is a scan reduced via the gain-calibration wrapper.
type GainsResponse struct {
	Scan   *Scan
	Tables []*GainTable
}

func (GainsResponse) isResponse() {}

// Reduced is the common per-scan reduction product of §4.2: per-antenna
// pointing, response and weight, plus the sub-band frequency vector.
// C (number of sub-bands) is 1 on the vis path.
type Reduced struct {
	X [][][2]float64 // [S][A][2], degrees
	Y [][][]float64  // [A][C][S]
	W [][][]float64  // [A][C][S]
	F []float64      // [C], Hz
}

const radToDeg = 180.0 / 3.141592653589793238462643383279502884

// meanPointing returns the per-antenna mean (az,el) of one scan's
// pointing array, in degrees.
func meanPointing(scan *Scan) [][2]float64 {
	numAnt := 0
	if len(scan.Pointing) > 0 {
		numAnt = len(scan.Pointing[0])
	}
	out := make([][2]float64, numAnt)
	if len(scan.Pointing) == 0 {
		return out
	}
	for a := 0; a < numAnt; a++ {
		var sumAz, sumEl float64
		for t := range scan.Pointing {
			sumAz += scan.Pointing[t][a][0]
			sumEl += scan.Pointing[t][a][1]
		}
		n := float64(len(scan.Pointing))
		out[a] = [2]float64{sumAz / n * radToDeg, sumEl / n * radToDeg}
	}
	return out
}

// parallelHandIndices returns the polarisation indices to keep, per
// the parallel-hand rule of §4.2: 2-pol kept directly, 4-pol reduced
// to first+last.
func parallelHandIndices(pols []string) ([]int, error) {
	switch len(pols) {
	case 0:
		return nil, fmt.Errorf("pointing-offset: scan has no polarisation products")
	case 1:
		return []int{0}, nil
	case 2:
		return []int{0, 1}, nil
	default:
		return []int{0, len(pols) - 1}, nil
	}
}

// ReduceFromVis implements the §4.2 vis path: autocorrelation-only
// amplitude extraction, parallel-hand polarisation collapse, frequency
// mean, and configurable time reduction.
func ReduceFromVis(scans []*Scan, avg TimeAvg) (*Reduced, error) {
	if len(scans) == 0 {
		return nil, fmt.Errorf("pointing-offset: ReduceFromVis: no scans")
	}
	numAnt := len(scans[0].Antennas)
	x := make([][][2]float64, len(scans))
	// per-antenna series across scans, one value per scan, each already
	// time-reduced within its scan
	series := make([][]float64, numAnt)
	wseries := make([][]float64, numAnt)

	for si, scan := range scans {
		if len(scan.Antennas) != numAnt {
			return nil, fmt.Errorf("pointing-offset: ReduceFromVis: scan %d has %d antennas, want %d", si, len(scan.Antennas), numAnt)
		}
		x[si] = meanPointing(scan)

		polIdx, err := parallelHandIndices(scan.Polarisation)
		if err != nil {
			return nil, err
		}

		for a := 0; a < numAnt; a++ {
			baseline := -1
			for b, a1 := range scan.Antenna1 {
				if a1 == a && scan.Antenna2[b] == a {
					baseline = b
					break
				}
			}
			if baseline < 0 {
				return nil, fmt.Errorf("pointing-offset: ReduceFromVis: no autocorrelation baseline for antenna %d", a)
			}

			perTime := make([]float64, len(scan.Vis))
			wPerTime := make([]float64, len(scan.Weight))
			for t := range scan.Vis {
				var sum, wsum float64
				var count int
				for ch := range scan.Vis[t][baseline] {
					for _, p := range polIdx {
						sum += cmplx.Abs(scan.Vis[t][baseline][ch][p])
						wsum += scan.Weight[t][baseline][ch][p]
						count++
					}
				}
				if count > 0 {
					perTime[t] = sum / float64(count)
					wPerTime[t] = wsum / float64(count)
				}
			}
			series[a] = append(series[a], reduceTime(avg, perTime))
			wseries[a] = append(wseries[a], reduceTime(avg, wPerTime))
		}
	}

	y := make([][]float64, numAnt)
	w := make([][]float64, numAnt)
	for a := 0; a < numAnt; a++ {
		y[a] = series[a]
		w[a] = wseries[a]
	}
	// wrap into the [A][C][S] shape with C=1
	yACS := make([][][]float64, numAnt)
	wACS := make([][][]float64, numAnt)
	for a := 0; a < numAnt; a++ {
		yACS[a] = [][]float64{y[a]}
		wACS[a] = [][]float64{w[a]}
	}

	first := scans[0]
	if len(first.Frequency) == 0 {
		return nil, fmt.Errorf("pointing-offset: ReduceFromVis: first scan has no retained channels")
	}
	fRep := first.Frequency[0]
	for _, f := range first.Frequency {
		if f > fRep {
			fRep = f
		}
	}

	return &Reduced{X: x, Y: yACS, W: wACS, F: []float64{fRep}}, nil
}

// ReduceFromGains implements the §4.2 gains path: calls the §4.6
// gain-calibration wrapper with chunks sub-bands per scan, then
// reduces complex diagonal gains the same way the vis path reduces
// visibility amplitudes.
func ReduceFromGains(scans []*Scan, chunks int, avg TimeAvg, solver GainSolver) (*Reduced, error) {
	if len(scans) == 0 {
		return nil, fmt.Errorf("pointing-offset: ReduceFromGains: no scans")
	}
	numAnt := len(scans[0].Antennas)
	x := make([][][2]float64, len(scans))

	var numChunks int
	var freqs []float64
	series := [][][]float64{} // [A][C][per-scan values to reduce]
	wseries := [][][]float64{}

	for si, scan := range scans {
		x[si] = meanPointing(scan)

		tables, err := solver.Solve(scan, chunks)
		if err != nil {
			return nil, fmt.Errorf("pointing-offset: ReduceFromGains: scan %d: %w", si, err)
		}
		if si == 0 {
			numChunks = len(tables)
			freqs = make([]float64, numChunks)
			for c, tab := range tables {
				freqs[c] = tab.Frequency
			}
			series = make([][][]float64, numAnt)
			wseries = make([][][]float64, numAnt)
			for a := range series {
				series[a] = make([][]float64, numChunks)
				wseries[a] = make([][]float64, numChunks)
			}
		}
		if len(tables) != numChunks {
			return nil, fmt.Errorf("pointing-offset: ReduceFromGains: scan %d returned %d chunks, want %d", si, len(tables), numChunks)
		}

		for c, tab := range tables {
			if len(tab.Gain) == 0 || len(tab.Gain[0]) != numAnt {
				return nil, fmt.Errorf("pointing-offset: ReduceFromGains: scan %d chunk %d has wrong antenna count", si, c)
			}
			for a := 0; a < numAnt; a++ {
				ampPerTime := make([]float64, len(tab.Gain))
				wPerTime := make([]float64, len(tab.Gain))
				for t := range tab.Gain {
					amp1 := cmplx.Abs(tab.Gain[t][a][0][0])
					amp2 := cmplx.Abs(tab.Gain[t][a][1][1])
					w1 := tab.Weight[t][a][0][0]
					w2 := tab.Weight[t][a][1][1]
					ampPerTime[t] = (amp1 + amp2) / 2
					wPerTime[t] = (w1 + w2) / 2
				}
				series[a][c] = append(series[a][c], reduceTime(avg, ampPerTime))
				wseries[a][c] = append(wseries[a][c], reduceTime(avg, wPerTime))
			}
		}
	}

	return &Reduced{X: x, Y: series, W: wseries, F: freqs}, nil
}
