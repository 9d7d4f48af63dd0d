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
	"runtime"

	"github.com/alitto/pond"
)

// newFitPool returns a fixed-size worker pool sized to GOMAXPROCS,
// used to run independent per-antenna (and per-sub-band) beam fits
// concurrently (§5: antennas and sub-bands are independent; the
// driver still collects results by antenna-index order, so the pool
// is an implementation detail invisible at the output boundary).
func newFitPool() *pond.WorkerPool {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return pond.New(n, 0, pond.MinWorkers(n))
}
