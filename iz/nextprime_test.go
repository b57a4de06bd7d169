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
	"math/big"
	"testing"
)

func TestNextPrimeSmall(t *testing.T) {
	cases := []struct {
		base    uint64
		forward bool
		want    uint64
	}{
		{0, true, 2},
		{1, true, 2},
		{2, true, 3},
		{3, true, 5},
		{4, true, 5},
		{89, true, 97},
		{90, true, 97},
		{96, true, 97},
		{97, true, 101},
		{100, true, 101},
		{101, true, 103}, // +2 fast path
		{3, false, 2},
		{5, false, 3},
		{97, false, 89},
		{103, false, 101}, // -2 fast path
		{120, false, 113},
	}
	for _, c := range cases {
		got, err := NextPrime(new(big.Int).SetUint64(c.base), c.forward)
		if err != nil {
			t.Fatalf("NextPrime(%d, %v): %v", c.base, c.forward, err)
		}
		if !got.IsUint64() || got.Uint64() != c.want {
			t.Errorf("NextPrime(%d, %v) = %s, want %d", c.base, c.forward, got, c.want)
		}
	}
}

func TestNextPrimeNoPrevious(t *testing.T) {
	if _, err := NextPrime(big.NewInt(2), false); err == nil {
		t.Error("previous prime of 2 should fail")
	}
}

// walk a window and compare every answer against a sieve
func TestNextPrimeAgainstSieve(t *testing.T) {
	primes, err := SiZ(20_000)
	if err != nil {
		t.Fatal(err)
	}
	vals := primes.Values()
	for base := uint64(100); base < 10_000; base += 137 {
		var wantNext, wantPrev uint64
		for _, p := range vals {
			if p > base {
				wantNext = p
				break
			}
		}
		for _, p := range vals {
			if p >= base {
				break
			}
			wantPrev = p
		}
		next, err := NextPrime(new(big.Int).SetUint64(base), true)
		if err != nil {
			t.Fatal(err)
		}
		if next.Uint64() != wantNext {
			t.Fatalf("NextPrime(%d, fwd) = %s, want %d", base, next, wantNext)
		}
		prev, err := NextPrime(new(big.Int).SetUint64(base), false)
		if err != nil {
			t.Fatal(err)
		}
		if prev.Uint64() != wantPrev {
			t.Fatalf("NextPrime(%d, back) = %s, want %d", base, prev, wantPrev)
		}
	}
}

func TestNextPrimeTrillion(t *testing.T) {
	base, _ := new(big.Int).SetString("1000000000000", 10)
	got, err := NextPrime(base, true)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "1000000000039" {
		t.Fatalf("next prime after 10^12 = %s, want 1000000000039", got)
	}
	prev, err := NextPrime(base, false)
	if err != nil {
		t.Fatal(err)
	}
	if prev.String() != "999999999989" {
		t.Fatalf("previous prime before 10^12 = %s, want 999999999989", prev)
	}
}

func TestNextPrimeLarge(t *testing.T) {
	if testing.Short() {
		t.Skip("large next-prime walk in -short mode")
	}
	base := new(big.Int).Lsh(bigOne, 384)
	p, err := NextPrime(base, true)
	if err != nil {
		t.Fatal(err)
	}
	if p.Cmp(base) <= 0 || !p.ProbablyPrime(25) {
		t.Fatalf("bad 384-bit next prime %s", p)
	}
	back, err := NextPrime(p, false)
	if err != nil {
		t.Fatal(err)
	}
	if back.Cmp(base) > 0 && back.Cmp(p) < 0 && !back.ProbablyPrime(25) {
		t.Fatalf("bad backward result %s", back)
	}
}
