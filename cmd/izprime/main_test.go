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
	"testing"

	"sigs.k8s.io/yaml"
)

func TestFindModels(t *testing.T) {
	if got := findModels("all"); len(got) != len(sieveModels) {
		t.Errorf("findModels(all) returned %d models", len(got))
	}
	if got := findModels("SiZm"); len(got) != 1 || got[0].name != "SiZm" {
		t.Errorf("findModels(SiZm) = %v", got)
	}
	if got := findModels("nope"); got != nil {
		t.Errorf("findModels(nope) = %v, want nil", got)
	}
}

func TestConfigDecode(t *testing.T) {
	var c config
	doc := []byte("mr_rounds: 30\ncores: 2\noutput_dir: out\n")
	if err := yaml.Unmarshal(doc, &c); err != nil {
		t.Fatal(err)
	}
	if c.MRRounds != 30 || c.Cores != 2 || c.OutputDir != "out" {
		t.Errorf("decoded config = %+v", c)
	}
}
