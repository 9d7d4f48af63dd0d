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
	"image/color"
)

// Color definitions for drawing the offset-vector diagram.
var (
	ClrWhite = &color.RGBA{255, 255, 255, 0}
	ClrRed   = &color.RGBA{255, 0, 0, 0}
	ClrBlack = &color.RGBA{0, 0, 0, 0}
	ClrGray  = &color.RGBA{127, 127, 127, 0}
	ClrBlue  = &color.RGBA{0, 0, 255, 0}
)

// Canvas is the narrow drawing surface the cmd/plotoffsets exporter
// renders onto; it is not part of the core (§1, §5: "no operation
// suspends or blocks on I/O inside the core"), only the CLI adapter
// draws diagnostics.
type Canvas interface {
	// Circle primitive (antenna marker).
	Circle(x, y, r, w float64, clrBorder, clrFill *color.RGBA)

	// Text primitive (antenna label).
	Text(x, y, fs float64, s string, clr *color.RGBA)

	// Line primitive (offset vector).
	Line(x1, y1, x2, y2, w float64, clr *color.RGBA)

	// Dump canvas to file.
	Dump(fName string) error

	// Close a canvas. No further operations are allowed.
	Close() error
}

// GetCanvas returns a canvas for drawing (factory). Only "svg" is
// implemented; the teacher's interactive SDL canvas has no analogue
// here (see DESIGN.md).
func GetCanvas(kind string, width, height int, prec float64) (c Canvas, err error) {
	switch kind {
	case "svg", "":
		return NewSVGCanvas(width, height, prec)
	}
	return nil, fmt.Errorf("pointing-offset: unknown canvas kind %q", kind)
}
