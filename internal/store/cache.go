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

// Package store caches per-antenna, per-sub-band beam fits keyed by a
// run tag, so repeated `compute` runs over the same MS directory with
// the same solver parameters can skip re-fitting scans that have not
// changed. It is an adapter, not part of the core: the solver and
// aggregator (lib) are unaware this cache exists.
package store

import (
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bfix/pointing-offset/lib"
)

const schema = `
create table if not exists beam_fit (
	id       integer primary key,
	run_tag  varchar(64)  not null, -- hash of (msdir, solver config)
	antenna  varchar(63)  not null,
	band     integer      not null, -- sub-band index, 0 on the vis path
	mu1      float not null,
	mu2      float not null,
	w1       float not null,
	w2       float not null,
	height   float not null,
	std_mu1  float not null,
	std_mu2  float not null,
	std_w1   float not null,
	std_w2   float not null,
	std_h    float not null,
	exp_w1   float not null,
	exp_w2   float not null,
	valid    integer not null
);
create unique index if not exists idx_beam_fit on beam_fit(run_tag, antenna, band);
`

// Cache wraps a SQLite database of cached beam fits.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at fname.
func Open(fname string) (*Cache, error) {
	db, err := sql.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close the underlying database.
func (c *Cache) Close() error {
	if c.db == nil {
		return errors.New("pointing-offset: cache not opened")
	}
	return c.db.Close()
}

// Get returns a cached beam fit for (runTag, antenna, band), if present.
func (c *Cache) Get(runTag, antenna string, band int) (*lib.Beam, bool, error) {
	row := c.db.QueryRow(
		`select mu1,mu2,w1,w2,height,std_mu1,std_mu2,std_w1,std_w2,std_h,exp_w1,exp_w2,valid
		 from beam_fit where run_tag=? and antenna=? and band=?`,
		runTag, antenna, band)

	var b lib.Beam
	var validInt int
	err := row.Scan(
		&b.Centre[0], &b.Centre[1], &b.Width[0], &b.Width[1], &b.Height,
		&b.StdCentre[0], &b.StdCentre[1], &b.StdWidth[0], &b.StdWidth[1], &b.StdHeight,
		&b.ExpectedWidth[0], &b.ExpectedWidth[1], &validInt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	b.Valid = validInt != 0
	return &b, true, nil
}

// Put stores (or replaces) a beam fit for (runTag, antenna, band).
func (c *Cache) Put(runTag, antenna string, band int, b *lib.Beam) error {
	valid := 0
	if b.Valid {
		valid = 1
	}
	_, err := c.db.Exec(
		`replace into beam_fit(run_tag,antenna,band,mu1,mu2,w1,w2,height,
		 std_mu1,std_mu2,std_w1,std_w2,std_h,exp_w1,exp_w2,valid)
		 values(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		runTag, antenna, band,
		b.Centre[0], b.Centre[1], b.Width[0], b.Width[1], b.Height,
		b.StdCentre[0], b.StdCentre[1], b.StdWidth[0], b.StdWidth[1], b.StdHeight,
		b.ExpectedWidth[0], b.ExpectedWidth[1], valid,
	)
	return err
}
