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

	lua "github.com/Shopify/go-lua"
)

// ValidationHook is a site-specific extra vetting rule evaluated after
// the built-in §4.3 validity predicate. A beam that fails the built-in
// predicate is never offered to a hook; a hook can only reject a beam
// the built-in predicate already accepted, never resurrect one it
// rejected.
type ValidationHook interface {
	Validate(antenna string, beam *Beam) (bool, error)
}

// LuaValidationHook evaluates a user-supplied Lua script's global
// "validate(antenna, mu1, mu2, w1, w2, h)" function, where w1 and w2
// are the fitted FWHM widths, mirroring the registration pattern of a
// generator script: the script runs once when loaded, the function is
// called once per beam with the parameters as arguments, and its
// single boolean return is read back.
type LuaValidationHook struct {
	state *lua.State
}

// NewLuaValidationHook loads script and prepares the Lua state. The
// script must define a global function "validate".
func NewLuaValidationHook(script string) (*LuaValidationHook, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	if err := lua.DoFile(state, script); err != nil {
		return nil, fmt.Errorf("pointing-offset: loading validation hook %q: %w", script, err)
	}
	state.Global("validate")
	if !state.IsFunction(-1) {
		state.Pop(1)
		return nil, fmt.Errorf("pointing-offset: validation hook %q has no global function 'validate'", script)
	}
	state.Pop(1)
	return &LuaValidationHook{state: state}, nil
}

// Validate calls the script's "validate" function with the beam's
// fitted parameters and returns its boolean verdict.
func (h *LuaValidationHook) Validate(antenna string, beam *Beam) (bool, error) {
	h.state.Global("validate")
	h.state.PushString(antenna)
	h.state.PushNumber(beam.Centre[0])
	h.state.PushNumber(beam.Centre[1])
	h.state.PushNumber(beam.Width[0])
	h.state.PushNumber(beam.Width[1])
	h.state.PushNumber(beam.Height)
	if err := h.state.ProtectedCall(6, 1, 0); err != nil {
		return false, fmt.Errorf("pointing-offset: validation hook for antenna %q: %w", antenna, err)
	}
	ok := h.state.ToBoolean(-1)
	h.state.Pop(1)
	return ok, nil
}

// ApplyHook runs an optional hook over a map of per-antenna beams (the
// vis path's shape), turning any rejection into invalidity.
func ApplyHook(hook ValidationHook, beams map[string]*Beam) error {
	if hook == nil {
		return nil
	}
	for name, b := range beams {
		if b == nil || !b.Valid {
			continue
		}
		ok, err := hook.Validate(name, b)
		if err != nil {
			return err
		}
		if !ok {
			b.Valid = false
		}
	}
	return nil
}

// ApplyHookBands runs an optional hook over per-antenna, per-sub-band
// beams (the gains path's shape).
func ApplyHookBands(hook ValidationHook, beams map[string][]*Beam) error {
	if hook == nil {
		return nil
	}
	for name, bands := range beams {
		for _, b := range bands {
			if b == nil || !b.Valid {
				continue
			}
			ok, err := hook.Validate(name, b)
			if err != nil {
				return err
			}
			if !ok {
				b.Valid = false
			}
		}
	}
	return nil
}
