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
	"fmt"
	"math"

	"github.com/bfix/pointing-offset/lib"
)

// plotOffsets renders one marker per antenna at its layout position,
// with a line pointing along its fitted cross-el/el offset direction,
// scaled by scale metres per arcmin so small offsets stay visible.
func plotOffsets(ants []*lib.Antenna, rows []lib.OffsetRow, scale float64, width, height int, fOut string) error {
	byName := make(map[string]lib.OffsetRow, len(rows))
	for _, r := range rows {
		byName[r.Antenna] = r
	}

	xmin, xmax := math.MaxFloat64, -math.MaxFloat64
	ymin, ymax := math.MaxFloat64, -math.MaxFloat64
	for _, a := range ants {
		x, y := a.Position[0], a.Position[1]
		xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
	}
	span := math.Max(xmax-xmin, ymax-ymin)
	if span <= 0 {
		span = 1
	}
	prec := span / float64(width-width/10)

	c, err := lib.GetCanvas("svg", width, height, prec)
	if err != nil {
		return err
	}
	defer c.Close()

	for _, a := range ants {
		x, y := a.Position[0], a.Position[1]
		r, ok := byName[a.Name]
		c.Circle(x, y, a.DiameterM/2, prec, lib.ClrGray, nil)
		c.Text(x, y+a.DiameterM, span/40, a.Name, lib.ClrBlack)
		if !ok || math.IsNaN(r.XElArcmin) || math.IsNaN(r.ElArcmin) {
			continue
		}
		dx := r.XElArcmin * scale
		dy := r.ElArcmin * scale
		c.Line(x, y, x+dx, y+dy, prec, lib.ClrRed)
	}

	if err := c.Dump(fOut); err != nil {
		return fmt.Errorf("pointing-offset: plotOffsets: %w", err)
	}
	return nil
}
