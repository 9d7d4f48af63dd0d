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
	"os"
	"path/filepath"
	"testing"

	"github.com/bfix/pointing-offset/lib"
)

func TestToComplex(t *testing.T) {
	raw := [][][][2]float64{{{{1, 2}, {3, 4}}}}
	got := toComplex(raw)
	if got[0][0][0][0] != complex(1, 2) || got[0][0][1][0] != complex(3, 4) {
		t.Errorf("toComplex = %v", got)
	}
}

func TestSelectChannelsInPlace(t *testing.T) {
	vis := [][][][]complex128{{{{1, 2, 3}}}}
	weight := [][][][]float64{{{{1, 1, 1}}}}
	outVis, outW := selectChannelsInPlace(vis, weight, []int{0, 2})
	if len(outVis[0][0]) != 2 || outVis[0][0][0] != complex(1, 0) || outVis[0][0][1] != complex(3, 0) {
		t.Errorf("selectChannelsInPlace vis = %v", outVis)
	}
	if len(outW[0][0]) != 2 {
		t.Errorf("selectChannelsInPlace weight = %v", outW)
	}
}

func TestLoadRun(t *testing.T) {
	dir := t.TempDir()
	body := `{
		"target": {"raRad": 0.1, "decRad": 0.2, "name": "cal"},
		"antennas": [{"name": "m000", "x": 1, "y": 2, "z": 3, "diameterM": 13.5, "latRad": 0.1, "lonRad": 0.2, "altM": 1000}],
		"scans": [{
			"vis": [[[[1,0]]]],
			"weight": [[[[1]]]],
			"time": [0],
			"pointing": [[[0,0]]],
			"pointingTime": [0],
			"antenna1": [0],
			"antenna2": [0],
			"frequency": [1.0e9],
			"polarisation": ["HH"]
		}]
	}`
	if err := os.WriteFile(filepath.Join(dir, "scans.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	rf, err := loadRun(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(rf.Scans) != 1 || rf.Target.Name != "cal" {
		t.Fatalf("loadRun = %+v", rf)
	}

	ants, err := lib.ConstructAntennas(rf.Antennas)
	if err != nil {
		t.Fatal(err)
	}
	scans, err := buildScans(rf, ants, &rf.Target, false, "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(scans) != 1 || len(scans[0].Frequency) != 1 {
		t.Fatalf("buildScans = %+v", scans)
	}
}

func TestFingerprint(t *testing.T) {
	a := fingerprint("/a", true, 1, 1.22, 1.22, 1.5, "none")
	b := fingerprint("/a", true, 1, 1.22, 1.22, 1.5, "none")
	c := fingerprint("/b", true, 1, 1.22, 1.22, 1.5, "none")
	if a != b {
		t.Errorf("fingerprint not stable: %q != %q", a, b)
	}
	if a == c {
		t.Errorf("fingerprint did not change with msdir")
	}
}
