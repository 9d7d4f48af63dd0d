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

// Command pointingoffset computes per-antenna pointing offsets from an
// interferometric pointing-calibration observation (spec §1). It is
// the CLI adapter around the lib offset-solution engine: it reads
// scans, drives the reducer/solver/aggregator, and exports the offset
// table. No domain logic lives here beyond wiring.
package main

import (
	_ "embed"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bfix/pointing-offset/internal/store"
	"github.com/bfix/pointing-offset/lib"
)

//go:generate sh -c "printf %s $(git describe --tags) > _version"
//go:embed _version
var Version string

//go:generate sh -c "printf %s $(date +%F) > _date"
//go:embed _date
var Date string

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	switch args[0] {
	case "compute":
		if err := runCompute(args[1:]); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Printf("pointing-offset %s (%s)\n", Version, Date)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pointingoffset <compute|version> [flags]")
}

func runCompute(args []string) error {
	fs := flag.NewFlagSet("compute", flag.ExitOnError)
	var (
		msdir       string
		applyMask   bool
		rfiFile     string
		startFreq   float64 // MHz
		endFreq     float64 // MHz
		fitToVis    bool
		useWeights  bool
		numChunks   int
		bwH, bwV    float64
		threshWidth float64
		timeAvgS    string
		saveOffset  bool
		resultsDir  string
		hookScript  string
		cacheFile   string
	)
	fs.StringVar(&msdir, "msdir", "", "directory holding the calibration observation")
	fs.BoolVar(&applyMask, "apply_mask", false, "apply the RFI mask before fitting")
	fs.StringVar(&rfiFile, "rfi_file", "", "whitespace-delimited 0/1 RFI mask file")
	fs.Float64Var(&startFreq, "start_freq", 0, "lower channel-selection bound (MHz)")
	fs.Float64Var(&endFreq, "end_freq", 0, "upper channel-selection bound (MHz)")
	fs.BoolVar(&fitToVis, "fit_to_vis", true, "fit the vis path (false selects the gains path)")
	fs.BoolVar(&useWeights, "use_weights", true, "weight the gains-path beam fit by per-sample variance (no effect on the vis path)")
	fs.IntVar(&numChunks, "num_chunks", 1, "frequency chunks for the gains path")
	fs.Float64Var(&bwH, "bw_factor_h", 1.22, "horizontal nominal beamwidth factor k")
	fs.Float64Var(&bwV, "bw_factor_v", 1.22, "vertical nominal beamwidth factor k")
	fs.Float64Var(&threshWidth, "thresh_width", 1.5, "max. fitted/expected beamwidth ratio")
	fs.StringVar(&timeAvgS, "time_avg", "none", "per-scan time reduction: none, median, mean")
	fs.BoolVar(&saveOffset, "save_offset", false, "save per-antenna beam-fit diagnostic plots")
	fs.StringVar(&resultsDir, "results_dir", ".", "output directory")
	fs.StringVar(&hookScript, "validate_hook", "", "optional Lua script with an extra validate() rule")
	fs.StringVar(&cacheFile, "cache", "", "optional SQLite cache of beam fits, keyed by msdir+config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if msdir == "" {
		return fmt.Errorf("pointing-offset: --msdir is required")
	}

	timeAvg, err := lib.ParseTimeAvg(timeAvgS)
	if err != nil {
		return err
	}

	rf, err := loadRun(msdir)
	if err != nil {
		return err
	}
	ants, err := lib.ConstructAntennas(rf.Antennas)
	if err != nil {
		return err
	}
	for i := range ants {
		ants[i].BeamwidthK = [2]float64{bwH, bwV}
	}

	scans, err := buildScans(rf, ants, &rf.Target, applyMask, rfiFile, startFreq*1e6, endFreq*1e6)
	if err != nil {
		return err
	}

	var hook lib.ValidationHook
	if hookScript != "" {
		h, err := lib.NewLuaValidationHook(hookScript)
		if err != nil {
			return err
		}
		hook = h
	}

	var cache *store.Cache
	var runTag string
	if cacheFile != "" {
		if cache, err = store.Open(cacheFile); err != nil {
			return err
		}
		defer cache.Close()
		runTag = fingerprint(msdir, fitToVis, numChunks, bwH, bwV, threshWidth, timeAvgS)
	}

	cfg := lib.SolverConfig{
		BeamwidthFactor: [2]float64{bwH, bwV},
		ThreshWidth:     threshWidth,
		UseWeights:      useWeights,
	}

	var rows []lib.OffsetRow
	if fitToVis {
		reduced, err := lib.ReduceFromVis(scans, timeAvg)
		if err != nil {
			return err
		}
		solver := &lib.Solver{Reduced: reduced, Antennas: ants, Config: cfg}
		beams, err := fitVisCached(solver, cache, runTag)
		if err != nil {
			return err
		}
		if err := lib.ApplyHook(hook, beams); err != nil {
			return err
		}
		if saveOffset {
			if err := savePlots(resultsDir, ants, reduced, beams); err != nil {
				return err
			}
		}
		rows, err = lib.Aggregate(ants, beams, nil, &rf.Target, scans, lib.MeeusLocator{})
		if err != nil {
			return err
		}
	} else {
		numChunks = lib.ResolveChunks(len(scans[0].Frequency), numChunks)
		reduced, err := lib.ReduceFromGains(scans, numChunks, timeAvg, lib.StubGainSolver{})
		if err != nil {
			return err
		}
		solver := &lib.Solver{Reduced: reduced, Antennas: ants, Config: cfg}
		beams, err := fitGainsCached(solver, cache, runTag)
		if err != nil {
			return err
		}
		if err := lib.ApplyHookBands(hook, beams); err != nil {
			return err
		}
		rows, err = lib.Aggregate(ants, nil, beams, &rf.Target, scans, lib.MeeusLocator{})
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return err
	}
	out, err := os.Create(filepath.Join(resultsDir, "pointing_offsets.txt"))
	if err != nil {
		return err
	}
	defer out.Close()
	return lib.WriteOffsetTable(out, rows)
}

// fitVisCached wraps Solver.FitVis with an optional cache lookup, so a
// `compute` re-run over a completely unchanged (msdir, config) pair
// can skip the Gauss-Newton fit entirely. A partial cache hit still
// re-fits every antenna: the Reduced arrays are indexed by the full
// antenna list, so fitting a strict subset would desynchronise them.
func fitVisCached(s *lib.Solver, cache *store.Cache, runTag string) (map[string]*lib.Beam, error) {
	if cache == nil {
		return s.FitVis()
	}
	out := make(map[string]*lib.Beam, len(s.Antennas))
	complete := true
	for _, a := range s.Antennas {
		b, ok, err := cache.Get(runTag, a.Name, 0)
		if err != nil {
			return nil, err
		}
		if !ok {
			complete = false
			break
		}
		out[a.Name] = b
	}
	if complete {
		return out, nil
	}

	fitted, err := s.FitVis()
	if err != nil {
		return nil, err
	}
	for name, b := range fitted {
		if err := cache.Put(runTag, name, 0, b); err != nil {
			log.Printf("pointing-offset: cache store for %q: %v", name, err)
		}
	}
	return fitted, nil
}

// fitGainsCached is the per-sub-band counterpart of fitVisCached, but
// write-only: it never looks fits up in the cache, always runs
// Solver.FitGains, and then stores every antenna's bands.
func fitGainsCached(s *lib.Solver, cache *store.Cache, runTag string) (map[string][]*lib.Beam, error) {
	beams, err := s.FitGains()
	if err != nil {
		return nil, err
	}
	if cache == nil {
		return beams, nil
	}
	for name, bands := range beams {
		for c, b := range bands {
			if err := cache.Put(runTag, name, c, b); err != nil {
				log.Printf("pointing-offset: cache store for %q band %d: %v", name, c, err)
			}
		}
	}
	return beams, nil
}

// fingerprint identifies a (msdir, solver config) run for the cache,
// so a change to fitting parameters invalidates the cached fits.
func fingerprint(msdir string, fitToVis bool, numChunks int, bwH, bwV, threshWidth float64, timeAvg string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%v|%d|%f|%f|%f|%s", msdir, fitToVis, numChunks, bwH, bwV, threshWidth, timeAvg)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// savePlots renders the --save_offset per-antenna diagnostic scatter
// and half-max contour, one SVG file per antenna, into resultsDir.
func savePlots(resultsDir string, ants []*lib.Antenna, reduced *lib.Reduced, beams map[string]*lib.Beam) error {
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return err
	}
	for i, a := range ants {
		b := beams[a.Name]
		if b == nil {
			continue
		}
		x := make([][2]float64, len(reduced.X))
		for s := range reduced.X {
			x[s] = reduced.X[s][i]
		}
		path := filepath.Join(resultsDir, fmt.Sprintf("beam_%s.svg", a.Name))
		if err := lib.PlotBeamFit(b, x, reduced.Y[i][0], path); err != nil {
			return err
		}
	}
	return nil
}
