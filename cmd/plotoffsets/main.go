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

// Command plotoffsets renders a pointing-offset table (§4.5's output)
// as an SVG diagram of the array: one marker per antenna at its
// physical layout position, with a line pointing in the direction of
// its fitted cross-el/el offset, scaled for visibility. It is a
// diagnostic view, not part of the core: the solver and aggregator
// never call it.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/bfix/pointing-offset/lib"
)

func main() {
	var (
		msdir   string
		offsets string
		fOut    string
		scale   float64
		width   int
		height  int
	)
	flag.StringVar(&msdir, "msdir", "", "directory holding scans.json (for antenna layout)")
	flag.StringVar(&offsets, "offsets", "", "pointing_offsets.txt produced by compute")
	flag.StringVar(&fOut, "out", "offsets.svg", "output SVG file")
	flag.Float64Var(&scale, "scale", 50, "metres of plotted vector per arcmin of offset")
	flag.IntVar(&width, "width", 800, "canvas width in pixels")
	flag.IntVar(&height, "height", 800, "canvas height in pixels")
	flag.Parse()

	if msdir == "" || offsets == "" {
		flag.Usage()
		log.Fatal("missing --msdir or --offsets")
	}

	ants, err := loadAntennas(msdir)
	if err != nil {
		log.Fatal(err)
	}
	rows, err := loadOffsets(offsets)
	if err != nil {
		log.Fatal(err)
	}
	if err := plotOffsets(ants, rows, scale, width, height, fOut); err != nil {
		log.Fatal(err)
	}
}

// antennaFile is the subset of the compute scan-exchange format
// (cmd/compute's runFile) this command needs: just the antenna list.
type antennaFile struct {
	Antennas []lib.AntennaConfig `json:"antennas"`
}

func loadAntennas(msdir string) ([]*lib.Antenna, error) {
	body, err := os.ReadFile(msdir + "/scans.json")
	if err != nil {
		return nil, err
	}
	var af antennaFile
	if err := json.Unmarshal(body, &af); err != nil {
		return nil, err
	}
	return lib.ConstructAntennas(af.Antennas)
}

func loadOffsets(fname string) ([]lib.OffsetRow, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = 4
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := make([]lib.OffsetRow, len(records))
	for i, rec := range records {
		rows[i].Antenna = rec[0]
		rows[i].AzArcmin = parseOffset(rec[1])
		rows[i].ElArcmin = parseOffset(rec[2])
		rows[i].XElArcmin = parseOffset(rec[3])
	}
	return rows, nil
}

func parseOffset(s string) float64 {
	if s == "NaN" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
