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
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// WriteOffsetTable writes rows as a headerless CSV: antenna name, then
// az/el/cross-el offsets in arcmin at full double precision. Missing
// values render as the literal "NaN" token.
func WriteOffsetTable(w io.Writer, rows []OffsetRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	formatFloat := func(v float64) string {
		if math.IsNaN(v) {
			return "NaN"
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	for _, r := range rows {
		record := []string{
			r.Antenna,
			formatFloat(r.AzArcmin),
			formatFloat(r.ElArcmin),
			formatFloat(r.XElArcmin),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
