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
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestApplyRFIMaskMismatch is scenario S5.
func TestApplyRFIMaskMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mask.txt")
	if err := os.WriteFile(path, []byte("1 1 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	freqs := []float64{1, 2, 3, 4, 5}
	filtered, channels, err := ApplyRFIMask(freqs, path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(channels, []int{2, 3, 4}) {
		t.Errorf("channels = %v, want [2 3 4]", channels)
	}
	if !reflect.DeepEqual(filtered, []float64{3, 4, 5}) {
		t.Errorf("filtered = %v, want [3 4 5]", filtered)
	}
}

func TestApplyRFIMaskMissingFile(t *testing.T) {
	freqs := []float64{1, 2, 3}
	filtered, channels, err := ApplyRFIMask(freqs, "/nonexistent/mask.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(channels, []int{0, 1, 2}) {
		t.Errorf("channels = %v, want [0 1 2]", channels)
	}
	if !reflect.DeepEqual(filtered, freqs) {
		t.Errorf("filtered = %v, want %v", filtered, freqs)
	}
}

// TestSelectChannels is scenario S6.
func TestSelectChannels(t *testing.T) {
	freqs := []float64{1.0e8, 1.5e8, 2.0e8, 2.5e8, 3.0e8}
	channels := []int{0, 1, 2, 3, 4}
	filtered, outChannels := SelectChannels(freqs, channels, 1.8e8, 2.8e8)
	if !reflect.DeepEqual(outChannels, []int{2, 3}) {
		t.Errorf("channels = %v, want [2 3]", outChannels)
	}
	if !reflect.DeepEqual(filtered, []float64{2.0e8, 2.5e8}) {
		t.Errorf("filtered = %v, want [2.0e8 2.5e8]", filtered)
	}
}

// TestInterpolatePointingsEndpoints is invariant 7.
func TestInterpolatePointingsEndpoints(t *testing.T) {
	origin := [][][2]float64{
		{{0.1, 0.2}, {0.3, 0.4}},
		{{0.5, 0.6}, {0.7, 0.8}},
	}
	tOrigin := []float64{10, 20}
	got := InterpolatePointings(origin, tOrigin, tOrigin)
	if !reflect.DeepEqual(got, origin) {
		t.Errorf("interpolating onto the same timestamps changed the data: got %v, want %v", got, origin)
	}
}

func TestInterpolatePointingsNearest(t *testing.T) {
	origin := [][][2]float64{
		{{0, 0}},
		{{10, 10}},
	}
	tOrigin := []float64{0, 10}
	tNew := []float64{1, 6, 9}
	got := InterpolatePointings(origin, tOrigin, tNew)
	want := [][][2]float64{
		{{0, 0}},
		{{10, 10}},
		{{10, 10}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestInterpolatePointingsShapeMismatch(t *testing.T) {
	origin := [][][2]float64{{{0, 0}}}
	tOrigin := []float64{0, 1}
	got := InterpolatePointings(origin, tOrigin, []float64{0})
	if !reflect.DeepEqual(got, origin) {
		t.Errorf("shape mismatch should return origin unchanged, got %v", got)
	}
}
