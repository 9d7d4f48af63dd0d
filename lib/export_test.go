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
	"strings"
	"testing"
)

func TestWriteOffsetTable(t *testing.T) {
	rows := []OffsetRow{
		{Antenna: "m000", AzArcmin: 1.5, ElArcmin: -2.25, XElArcmin: 0.75},
		{Antenna: "m001", AzArcmin: math.NaN(), ElArcmin: math.NaN(), XElArcmin: math.NaN()},
	}
	var buf strings.Builder
	if err := WriteOffsetTable(&buf, rows); err != nil {
		t.Fatal(err)
	}
	want := "m000,1.5,-2.25,0.75\nm001,NaN,NaN,NaN\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
