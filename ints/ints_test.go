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

package ints

import "testing"

func TestBitOps(t *testing.T) {
	buf := make([]byte, 4)
	SetBit(buf, 0)
	SetBit(buf, 13)
	SetBit(buf, 31)
	for i := 0; i < 32; i++ {
		want := i == 0 || i == 13 || i == 31
		if TestBit(buf, i) != want {
			t.Fatalf("bit %d = %v, want %v", i, TestBit(buf, i), want)
		}
	}
	ClearBit(buf, 13)
	if TestBit(buf, 13) {
		t.Fatal("ClearBit did not clear")
	}
	FlipBit(buf, 13)
	if !TestBit(buf, 13) {
		t.Fatal("FlipBit did not set")
	}

	wide := make([]uint64, 2)
	SetBit(wide, 64)
	if wide[1] != 1 {
		t.Fatalf("wide SetBit landed at %x", wide)
	}
}

func TestClamp(t *testing.T) {
	if Min(3, 5) != 3 || Max(3, 5) != 5 {
		t.Fatal("Min/Max broken")
	}
	cases := []struct{ x, lo, hi, want int }{
		{1, 5, 50, 5},
		{10, 5, 50, 10},
		{99, 5, 50, 50},
	}
	for _, c := range cases {
		if got := Clamp(c.x, c.lo, c.hi); got != c.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", c.x, c.lo, c.hi, got, c.want)
		}
	}
}
