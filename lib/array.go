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
	"bufio"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ApplyRFIMask drops channels flagged (nonzero) in a whitespace-separated
// 0/1 text file at maskPath, keeping channels where the mask is zero. A
// missing file is not an error: it is logged once and every channel is
// kept. A mask shorter than freqs is zero-padded (the extra channels are
// kept); a longer mask is truncated to len(freqs).
func ApplyRFIMask(freqs []float64, maskPath string) (filtered []float64, channels []int, err error) {
	n := len(freqs)
	if maskPath == "" {
		return passAllChannels(freqs)
	}
	f, openErr := os.Open(maskPath)
	if openErr != nil {
		log.Printf("pointing-offset: RFI mask %q not found, keeping all channels", maskPath)
		return passAllChannels(freqs)
	}
	defer f.Close()

	flagged := make([]bool, 0, n)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		for _, tok := range strings.Fields(scanner.Text()) {
			v, perr := strconv.Atoi(tok)
			if perr != nil {
				return nil, nil, fmt.Errorf("pointing-offset: RFI mask %q: invalid token %q: %w", maskPath, tok, perr)
			}
			flagged = append(flagged, v != 0)
		}
	}
	if serr := scanner.Err(); serr != nil {
		return nil, nil, fmt.Errorf("pointing-offset: RFI mask %q: %w", maskPath, serr)
	}
	for len(flagged) < n {
		flagged = append(flagged, false)
	}
	if len(flagged) > n {
		flagged = flagged[:n]
	}

	for i, bad := range flagged {
		if !bad {
			filtered = append(filtered, freqs[i])
			channels = append(channels, i)
		}
	}
	return filtered, channels, nil
}

func passAllChannels(freqs []float64) ([]float64, []int, error) {
	channels := make([]int, len(freqs))
	out := make([]float64, len(freqs))
	copy(out, freqs)
	for i := range channels {
		channels[i] = i
	}
	return out, channels, nil
}

// SelectChannels restricts freqs/channels to the strict-exclusive
// frequency interval (fLo, fHi).
func SelectChannels(freqs []float64, channels []int, fLo, fHi float64) (filtered []float64, outChannels []int) {
	for i, f := range freqs {
		if f > fLo && f < fHi {
			filtered = append(filtered, f)
			outChannels = append(outChannels, channels[i])
		}
	}
	return filtered, outChannels
}

// InterpolatePointings resamples originData, shaped [T_o][A][2]
// (time, antenna, axis), from tOrigin onto tNew by nearest-neighbour
// lookup, independently per antenna per axis. tOrigin is sorted first
// if it is not already monotonically increasing. A shape mismatch
// between originData and tOrigin is logged and originData is returned
// unchanged (only sound when T_o == T_new; the caller must not rely
// on this fallback preserving T_new).
func InterpolatePointings(originData [][][2]float64, tOrigin, tNew []float64) [][][2]float64 {
	if len(originData) != len(tOrigin) {
		log.Printf("pointing-offset: pointing interpolation shape mismatch: len(originData)=%d len(tOrigin)=%d", len(originData), len(tOrigin))
		return originData
	}
	if len(originData) == 0 {
		return originData
	}

	order := make([]int, len(tOrigin))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return tOrigin[order[i]] < tOrigin[order[j]] })
	sortedT := make([]float64, len(tOrigin))
	sortedData := make([][][2]float64, len(originData))
	for i, idx := range order {
		sortedT[i] = tOrigin[idx]
		sortedData[i] = originData[idx]
	}

	numAnt := len(sortedData[0])
	out := make([][][2]float64, len(tNew))
	for ti, t := range tNew {
		idx := nearestIndex(sortedT, t)
		row := make([][2]float64, numAnt)
		copy(row, sortedData[idx])
		out[ti] = row
	}
	return out
}

// nearestIndex returns the index into sorted whose value is closest to t.
func nearestIndex(sorted []float64, t float64) int {
	i := sort.SearchFloat64s(sorted, t)
	if i == 0 {
		return 0
	}
	if i >= len(sorted) {
		return len(sorted) - 1
	}
	if t-sorted[i-1] <= sorted[i]-t {
		return i - 1
	}
	return i
}
