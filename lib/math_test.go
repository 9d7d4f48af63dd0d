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

func TestWrapPi(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{math.Pi + 0.1, -math.Pi + 0.1},
		{-math.Pi - 0.1, math.Pi - 0.1},
		{3 * math.Pi, math.Pi},
		{-3 * math.Pi, math.Pi},
	}
	for _, c := range cases {
		got := WrapPi(c.in)
		if !IsNull(got - c.want) {
			t.Errorf("WrapPi(%f) = %f, want %f", c.in, got, c.want)
		}
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("WrapPi(%f) = %f out of range (-pi,pi]", c.in, got)
		}
	}
}

func TestIsNullInRange(t *testing.T) {
	if !IsNull(0) || IsNull(1) {
		t.Errorf("IsNull broken")
	}
	if !InRange(0.5, 0, 1) || InRange(1.5, 0, 1) {
		t.Errorf("InRange broken")
	}
}
