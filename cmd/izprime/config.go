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
	"flag"
	"log"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/Zprime137/iZprime/internal/platform"
)

// configFile is looked up in the working directory; absent is fine.
const configFile = "izprime.yaml"

// config carries the optional defaults a user can pin down once
// instead of repeating flags.
type config struct {
	MRRounds  int    `json:"mr_rounds"`
	Cores     int    `json:"cores"`
	OutputDir string `json:"output_dir"`
}

var conf config

// applyConfig loads izprime.yaml and fills in -mr-rounds and
// -cores-number when the command line did not set them. output_dir is
// decoded but no command reads it.
func applyConfig() {
	buf, err := os.ReadFile(configFile)
	if err == nil {
		if err := yaml.Unmarshal(buf, &conf); err != nil {
			log.Printf("ignoring malformed %s: %v", configFile, err)
			conf = config{}
		}
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["mr-rounds"] && conf.MRRounds > 0 {
		dashmr = conf.MRRounds
	}
	if !set["cores-number"] && conf.Cores > 0 {
		dashcores = conf.Cores
	}
}

// cores resolves the effective worker count.
func cores() int {
	if dashcores > 0 {
		return dashcores
	}
	return platform.CPUCores()
}
