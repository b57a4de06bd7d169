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

package iz

import (
	"errors"
	"math/big"
	"testing"
)

func TestIZ(t *testing.T) {
	cases := []struct {
		x    uint64
		i    int
		want uint64
	}{
		{1, -1, 5},
		{1, +1, 7},
		{4, -1, 23},
		{4, +1, 25},
		{166666, +1, 999997},
	}
	for _, c := range cases {
		if got := IZ(c.x, c.i); got != c.want {
			t.Errorf("IZ(%d, %d) = %d, want %d", c.x, c.i, got, c.want)
		}
		bz := IZBig(new(big.Int).SetUint64(c.x), c.i)
		if !bz.IsUint64() || bz.Uint64() != c.want {
			t.Errorf("IZBig(%d, %d) = %s, want %d", c.x, c.i, bz, c.want)
		}
	}
}

// every n > 3 with gcd(n, 6) = 1 has exactly one (x, i) representation
func TestIZCoverage(t *testing.T) {
	for n := uint64(5); n < 10000; n++ {
		if n%2 == 0 || n%3 == 0 {
			continue
		}
		var hits int
		if (n+1)%6 == 0 {
			hits++ // n = 6x-1
		}
		if (n-1)%6 == 0 {
			hits++ // n = 6x+1
		}
		if hits != 1 {
			t.Fatalf("n=%d has %d iZ representations", n, hits)
		}
	}
}

func TestGCDAndInverse(t *testing.T) {
	if g := gcd(35, 385); g != 35 {
		t.Errorf("gcd(35, 385) = %d", g)
	}
	if g := gcd(17, 19); g != 1 {
		t.Errorf("gcd(17, 19) = %d", g)
	}
	for _, c := range []struct{ a, m uint64 }{{3, 7}, {35, 97}, {100, 101}, {5005, 1009}} {
		inv, ok := modularInverse(c.a, c.m)
		if !ok {
			t.Fatalf("modularInverse(%d, %d) reported no inverse", c.a, c.m)
		}
		if (c.a % c.m * inv) % c.m != 1 {
			t.Errorf("modularInverse(%d, %d) = %d is wrong", c.a, c.m, inv)
		}
	}
	if _, ok := modularInverse(35, 55); ok {
		t.Error("modularInverse found an inverse for non-coprime input")
	}
}

var solverPrimes = []uint64{29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79}

func TestSolveX0(t *testing.T) {
	vx := VX4
	for _, y := range []uint64{1, 10, 999, 123456} {
		for _, p := range solverPrimes {
			for _, mID := range []int{-1, 1} {
				x := SolveX0(mID, p, vx, y)
				if x > p {
					t.Fatalf("SolveX0(%d, %d, %d, %d) = %d beyond p", mID, p, vx, y, x)
				}
				z := IZ(y*vx+x, mID)
				if z%p != 0 {
					t.Fatalf("SolveX0(%d, %d, vx=%d, y=%d) = %d: iZ=%d not divisible",
						mID, p, vx, y, x, z)
				}
				// minimality: no earlier hit at x' >= 1
				for xp := uint64(1); xp < x; xp++ {
					if IZ(y*vx+xp, mID)%p == 0 {
						t.Fatalf("earlier hit x'=%d before x=%d for p=%d", xp, x, p)
					}
				}
			}
		}
	}
}

func TestSolveX0RowZero(t *testing.T) {
	// at row zero the first *composite* is targeted, skipping p itself
	for _, p := range solverPrimes {
		for _, mID := range []int{-1, 1} {
			x := SolveX0(mID, p, VX6, 0)
			z := IZ(x, mID)
			if z%p != 0 || z == p {
				t.Fatalf("SolveX0(%d, %d, y=0) = %d: iZ=%d", mID, p, x, z)
			}
		}
	}
}

func TestSolveX0Big(t *testing.T) {
	vx := VX4
	y := new(big.Int).SetUint64(1_000_000_000)
	yvx := new(big.Int).Mul(y, new(big.Int).SetUint64(vx))
	for _, p := range solverPrimes {
		for _, mID := range []int{-1, 1} {
			x := SolveX0Big(mID, p, vx, y)
			z := izAt(yvx, x, mID)
			if new(big.Int).Mod(z, new(big.Int).SetUint64(p)).Sign() != 0 {
				t.Fatalf("SolveX0Big(%d, %d) = %d: %s not divisible", mID, p, x, z)
			}
			// must agree with the 64-bit solver while y still fits
			if x64 := SolveX0(mID, p, vx, y.Uint64()); x64 != x {
				t.Fatalf("SolveX0Big=%d disagrees with SolveX0=%d for p=%d", x, x64, p)
			}
		}
	}
}

func TestSolveY0(t *testing.T) {
	vx := VX4
	x := uint64(17)
	for _, p := range solverPrimes {
		for _, mID := range []int{-1, 1} {
			y, ok := SolveY0(mID, p, vx, x)
			if !ok {
				t.Fatalf("SolveY0(%d, %d) found no solution", mID, p)
			}
			z := IZ(x+vx*y, mID)
			if z%p != 0 {
				t.Fatalf("SolveY0(%d, %d, vx=%d, x=%d) = %d: iZ=%d not divisible",
					mID, p, vx, x, y, z)
			}
		}
	}
	// wheel primes divide vx: no modular solution unless already hit
	if _, ok := SolveY0(-1, 13, VX4, 2); ok {
		if IZ(2, -1)%13 != 0 {
			t.Error("SolveY0 claimed a solution for p | vx")
		}
	}
}

func TestVXBaseCoprimality(t *testing.T) {
	vx := VX4
	m, err := NewIZM(vx)
	if err != nil {
		t.Fatal(err)
	}
	if m.KVX != 4 { // 5, 7, 11, 13
		t.Fatalf("KVX = %d, want 4", m.KVX)
	}
	for x := uint64(1); x <= vx; x++ {
		if m.BaseX5.IsSet(x) != (gcd(IZ(x, -1), vx) == 1) {
			t.Fatalf("base_x5 wrong at x=%d", x)
		}
		if m.BaseX7.IsSet(x) != (gcd(IZ(x, +1), vx) == 1) {
			t.Fatalf("base_x7 wrong at x=%d", x)
		}
	}
}

func TestIZMClone(t *testing.T) {
	m, err := NewIZM(VX3)
	if err != nil {
		t.Fatal(err)
	}
	c := m.Clone()
	// IZ(4, -1) = 23 is coprime to 385, so the base bit is set
	if !m.BaseX5.IsSet(4) {
		t.Fatal("expected base bit at x=4")
	}
	c.BaseX5.Clear(4)
	if !m.BaseX5.IsSet(4) {
		t.Fatal("clone shares base bitmap with source")
	}
	c.RootPrimes.Push(0)
	if m.RootPrimes.Len() == c.RootPrimes.Len() {
		t.Fatal("clone shares root primes with source")
	}
}

func TestNewIZMRejectsBadVX(t *testing.T) {
	for _, vx := range []uint64{0, 10, 34, 36, 5 * 11, 35 * 13, VX4 * 2} {
		if _, err := NewIZM(vx); !errors.Is(err, ErrDomain) {
			t.Errorf("NewIZM(%d) err = %v, want ErrDomain", vx, err)
		}
	}
	for _, vx := range []uint64{VX2, VX3, VX4} {
		if _, err := NewIZM(vx); err != nil {
			t.Errorf("NewIZM(%d): %v", vx, err)
		}
	}
}

func TestComputeVXK(t *testing.T) {
	want := []uint64{1, 5, 35, 385, 5005, 85085}
	for k, w := range want {
		if got := ComputeVXK(k); got != w {
			t.Errorf("ComputeVXK(%d) = %d, want %d", k, got, w)
		}
	}
	// saturates instead of overflowing
	big := ComputeVXK(40)
	if big == 0 {
		t.Error("ComputeVXK overflowed to zero")
	}
}

func TestComputeL2VX(t *testing.T) {
	vx := ComputeL2VX(1_000_000_000)
	if _, err := validateVX(vx); err != nil {
		t.Fatalf("ComputeL2VX produced invalid vx=%d: %v", vx, err)
	}
	if vx < VX2 {
		t.Fatalf("vx = %d below minimum", vx)
	}
	// a tiny limit stays at the first wheel width
	if got := ComputeL2VX(300); got != VX2 {
		t.Errorf("ComputeL2VX(300) = %d, want %d", got, VX2)
	}
}

func TestComputeMaxVX(t *testing.T) {
	for _, bits := range []int{16, 64, 256} {
		vx := ComputeMaxVX(bits)
		if vx.BitLen() >= bits {
			t.Errorf("ComputeMaxVX(%d) has %d bits", bits, vx.BitLen())
		}
		if vx.Cmp(big.NewInt(1)) <= 0 {
			t.Errorf("ComputeMaxVX(%d) degenerate: %s", bits, vx)
		}
	}
}
