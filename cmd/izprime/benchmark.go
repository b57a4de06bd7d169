// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"sigs.k8s.io/yaml"

	"github.com/Zprime137/iZprime/internal/platform"
	"github.com/Zprime137/iZprime/numexpr"
)

// benchResult is one timed run; Fingerprint lets results from
// different algorithms (or machines) be compared cheaply.
type benchResult struct {
	Algo        string  `json:"algo"`
	Limit       uint64  `json:"limit"`
	Run         int     `json:"run"`
	Seconds     float64 `json:"seconds"`
	Primes      int     `json:"primes"`
	Fingerprint string  `json:"fingerprint"`
}

// benchReport is the YAML document -save-results persists.
type benchReport struct {
	ID      string        `json:"id"`
	Date    string        `json:"date"`
	Cores   int           `json:"cores"`
	Results []benchResult `json:"results"`
}

// entry point for 'izprime benchmark'
func cmdBenchmark() {
	limit := uint64(10_000_000)
	if dashlimit != "" {
		v, err := numexpr.ParseUint64(dashlimit)
		if err != nil {
			usagef("bad -limit: %v", err)
		}
		limit = v
	}
	models := findModels(dashalgo)
	if models == nil {
		usagef("unknown -algo %q", dashalgo)
	}
	repeat := dashrepeat
	if repeat < 1 {
		repeat = 1
	}

	report := benchReport{
		ID:    uuid.New().String(),
		Date:  time.Now().UTC().Format(time.RFC3339),
		Cores: platform.CPUCores(),
	}
	fmt.Printf("%-10s %-14s %-6s %-12s %s\n", "algo", "limit", "run", "seconds", "primes")
	for _, m := range models {
		for run := 1; run <= repeat; run++ {
			start := time.Now()
			primes, err := m.fn(limit)
			if err != nil {
				exitForError(err)
			}
			secs := time.Since(start).Seconds()
			res := benchResult{
				Algo:        m.name,
				Limit:       limit,
				Run:         run,
				Seconds:     secs,
				Primes:      primes.Len(),
				Fingerprint: fmt.Sprintf("%016x", primes.Fingerprint()),
			}
			report.Results = append(report.Results, res)
			fmt.Printf("%-10s %-14d %-6d %-12.4f %d\n", res.Algo, res.Limit, res.Run, res.Seconds, res.Primes)
		}
	}

	if dashsave != "" {
		buf, err := yaml.Marshal(&report)
		if err != nil {
			exitf("encoding results: %v", err)
		}
		if dir := filepath.Dir(dashsave); dir != "." {
			if err := platform.CreateDir(dir); err != nil {
				exitf("creating results directory: %v", err)
			}
		}
		if err := os.WriteFile(dashsave, buf, 0644); err != nil {
			exitf("writing %s: %v", dashsave, err)
		}
		fmt.Printf("results saved to %s (run %s)\n", dashsave, report.ID)
	}
}
