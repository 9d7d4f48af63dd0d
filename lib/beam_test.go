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

// TestFWHMSigmaRoundTrip is spec §8 invariant 2.
func TestFWHMSigmaRoundTrip(t *testing.T) {
	for _, fwhm := range []float64{0.001, 0.1, 0.706, 1.0, 12.3} {
		got := SigmaToFWHM(FWHMToSigma(fwhm))
		if math.Abs(got-fwhm) > 1e-12 {
			t.Errorf("round trip broken for %f: got %f", fwhm, got)
		}
	}
}

func gaussianSamples(mu [2]float64, sigma float64, height float64, offsets [][2]float64) ([][2]float64, []float64) {
	x := make([][2]float64, len(offsets))
	y := make([]float64, len(offsets))
	for i, o := range offsets {
		x[i] = o
		d1 := o[0] - mu[0]
		d2 := o[1] - mu[1]
		y[i] = height * math.Exp(-0.5*(d1*d1+d2*d2)/(sigma*sigma))
	}
	return x, y
}

// TestBeamFitCentred is scenario S1.
func TestBeamFitCentred(t *testing.T) {
	offsets := [][2]float64{{0, -1}, {0, 0}, {0, 1}, {-1, 0}, {1, 0}}
	sigma := 0.3
	x, y := gaussianSamples([2]float64{0, 0}, sigma, 1.0, offsets)

	expectedFWHM := SigmaToFWHM(sigma)
	b := NewBeam([2]float64{0, 0}, BroadcastWidth(expectedFWHM), 1.0)
	if err := b.Fit(x, y, nil, 1.5); err != nil {
		t.Fatal(err)
	}
	if !b.Valid {
		t.Fatalf("expected valid fit, got invalid beam: %+v", b)
	}
	if math.Abs(b.Centre[0]) > 1e-6 || math.Abs(b.Centre[1]) > 1e-6 {
		t.Errorf("centre = %v, want (0,0) within 1e-6", b.Centre)
	}
	if math.Abs(b.Width[0]-expectedFWHM) > 1e-3 || math.Abs(b.Width[1]-expectedFWHM) > 1e-3 {
		t.Errorf("width = %v, want %f within 1e-3", b.Width, expectedFWHM)
	}
}

// TestBeamFitShifted is scenario S2.
func TestBeamFitShifted(t *testing.T) {
	offsets := [][2]float64{{0, -1}, {0, 0}, {0, 1}, {-1, 0}, {1, 0}}
	sigma := 0.3
	shift := [2]float64{0.1, -0.05}
	shifted := make([][2]float64, len(offsets))
	for i, o := range offsets {
		shifted[i] = [2]float64{o[0] + shift[0], o[1] + shift[1]}
	}
	x, y := gaussianSamples(shift, sigma, 1.0, shifted)

	expectedFWHM := SigmaToFWHM(sigma)
	b := NewBeam([2]float64{0, 0}, BroadcastWidth(expectedFWHM), 1.0)
	if err := b.Fit(x, y, nil, 1.5); err != nil {
		t.Fatal(err)
	}
	if !b.Valid {
		t.Fatalf("expected valid fit, got invalid beam: %+v", b)
	}
	if math.Abs(b.Centre[0]-shift[0]) > 1e-3 || math.Abs(b.Centre[1]-shift[1]) > 1e-3 {
		t.Errorf("centre = %v, want %v within 1e-3", b.Centre, shift)
	}
}

// TestBeamFitInvalidWidth is scenario S3: a beam whose true width is
// twice the expected width must be rejected by the validity predicate.
func TestBeamFitInvalidWidth(t *testing.T) {
	offsets := [][2]float64{{0, -2}, {0, -1}, {0, 0}, {0, 1}, {0, 2}, {-2, 0}, {-1, 0}, {1, 0}, {2, 0}}
	trueSigma := 0.6
	x, y := gaussianSamples([2]float64{0, 0}, trueSigma, 1.0, offsets)

	expectedFWHM := SigmaToFWHM(trueSigma / 2) // expected width is half the true width
	b := NewBeam([2]float64{0, 0}, BroadcastWidth(expectedFWHM), 1.0)
	if err := b.Fit(x, y, nil, 1.5); err != nil {
		t.Fatal(err)
	}
	if b.Valid {
		t.Fatalf("expected invalid fit (width ratio 2.0 > thresh 1.5), got valid: %+v", b)
	}
}

func TestBeamValidityEachClause(t *testing.T) {
	b := &Beam{
		Centre:        [2]float64{0, 0},
		Width:         [2]float64{1, 1},
		Height:        1,
		StdWidth:      [2]float64{0.1, 0.1},
		ExpectedWidth: [2]float64{1, 1},
	}
	b.checkValid(1.5)
	if !b.Valid {
		t.Fatalf("expected valid baseline beam")
	}

	bad := *b
	bad.Height = -1
	bad.checkValid(1.5)
	if bad.Valid {
		t.Errorf("negative height should be invalid")
	}

	bad = *b
	bad.Width = [2]float64{2.0, 1}
	bad.checkValid(1.5)
	if bad.Valid {
		t.Errorf("width ratio above threshold should be invalid")
	}

	bad = *b
	bad.Centre[0] = math.NaN()
	bad.checkValid(1.5)
	if bad.Valid {
		t.Errorf("NaN centre should be invalid")
	}

	bad = *b
	bad.StdWidth[0] = 0
	bad.checkValid(1.5)
	if bad.Valid {
		t.Errorf("zero std width (no SNR) should be invalid")
	}
}
