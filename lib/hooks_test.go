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

import "testing"

// rejectHook rejects every beam for a named antenna, regardless of its
// built-in validity.
type rejectHook struct{ reject string }

func (h rejectHook) Validate(antenna string, beam *Beam) (bool, error) {
	return antenna != h.reject, nil
}

func TestApplyHookDowngradesRejected(t *testing.T) {
	beams := map[string]*Beam{
		"m000": {Valid: true},
		"m001": {Valid: true},
		"m002": {Valid: false},
	}
	if err := ApplyHook(rejectHook{reject: "m000"}, beams); err != nil {
		t.Fatal(err)
	}
	if beams["m000"].Valid {
		t.Error("hook-rejected antenna still marked valid")
	}
	if !beams["m001"].Valid {
		t.Error("hook-accepted antenna marked invalid")
	}
	if beams["m002"].Valid {
		t.Error("hook resurrected an already-invalid beam")
	}
}

func TestApplyHookNilIsNoop(t *testing.T) {
	beams := map[string]*Beam{"m000": {Valid: true}}
	if err := ApplyHook(nil, beams); err != nil {
		t.Fatal(err)
	}
	if !beams["m000"].Valid {
		t.Error("nil hook changed validity")
	}
}

func TestApplyHookBandsDowngradesRejected(t *testing.T) {
	beams := map[string][]*Beam{
		"m000": {{Valid: true}, {Valid: true}},
	}
	if err := ApplyHookBands(rejectHook{reject: "m000"}, beams); err != nil {
		t.Fatal(err)
	}
	for _, b := range beams["m000"] {
		if b.Valid {
			t.Error("hook-rejected band still marked valid")
		}
	}
}
