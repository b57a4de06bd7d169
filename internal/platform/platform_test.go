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

package platform

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestCPUCores(t *testing.T) {
	if n := CPUCores(); n < 1 {
		t.Errorf("CPUCores() = %d, want >= 1", n)
	}
}

func TestL2CacheBits(t *testing.T) {
	bits := L2CacheBits()
	if bits < 8*1024*8 {
		t.Errorf("L2CacheBits() = %d, implausibly small", bits)
	}
}

func TestFillRandom(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	FillRandom(a)
	FillRandom(b)
	if bytes.Equal(a, b) {
		t.Error("two FillRandom calls produced identical buffers")
	}
}

func TestCreateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := CreateDir(dir); err != nil {
		t.Fatal(err)
	}
	// creating an existing directory is not an error
	if err := CreateDir(dir); err != nil {
		t.Fatal(err)
	}
}
