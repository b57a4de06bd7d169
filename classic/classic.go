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

// Package classic holds the reference sieves (Eratosthenes, segmented
// Eratosthenes, Euler, Sundaram, Atkin) used to cross-check the iZ
// family. They favor clarity over throughput.
package classic

import (
	"errors"
	"fmt"
	"math"

	"github.com/Zprime137/iZprime/bitmap"
	"github.com/Zprime137/iZprime/uvec"
)

// ErrDomain is returned for limits outside (10, 10^12].
var ErrDomain = errors.New("classic: input outside supported domain")

const maxN = 1_000_000_000_000

func checkDomain(n uint64) error {
	if n <= 10 || n > maxN {
		return fmt.Errorf("%w: n=%d not in (10, 10^12]", ErrDomain, n)
	}
	return nil
}

func estimate(n uint64) int {
	return int(float64(n)/(math.Log(float64(n))-1.12)) + 16
}

// SoE is the odd-only Sieve of Eratosthenes.
func SoE(n uint64) (*uvec.U64, error) {
	if err := checkDomain(n); err != nil {
		return nil, err
	}
	// index i represents the odd number 2i+3
	size := (n - 1) / 2
	odds, err := bitmap.New(size, true)
	if err != nil {
		return nil, err
	}
	limit := uint64(math.Sqrt(float64(n)))
	for c := uint64(3); c <= limit; c += 2 {
		if !odds.IsSet((c - 3) / 2) {
			continue
		}
		// step c in index space advances 2c in value space
		odds.ClearStepsSIMD(c, (c*c-3)/2, size-1)
	}
	primes := uvec.NewU64(estimate(n))
	primes.Push(2)
	for i := uint64(0); i < size; i++ {
		if odds.IsSet(i) {
			v := 2*i + 3
			if v > n {
				break
			}
			primes.Push(v)
		}
	}
	primes.ResizeToFit()
	return primes, nil
}

// SSoE is the segmented Sieve of Eratosthenes; segments are sized to
// sqrt(n) so the base primes double as the segment width.
func SSoE(n uint64) (*uvec.U64, error) {
	if err := checkDomain(n); err != nil {
		return nil, err
	}
	if n <= 121 {
		// too small to segment
		return SoE(n)
	}
	segSize := uint64(math.Sqrt(float64(n))) + 1
	base, err := SoE(segSize)
	if err != nil {
		return nil, err
	}
	primes := uvec.NewU64(estimate(n))
	for _, p := range base.Values() {
		primes.Push(p)
	}
	seg, err := bitmap.New(segSize, true)
	if err != nil {
		return nil, err
	}
	for low := segSize + 1; low <= n; low += segSize {
		high := low + segSize - 1
		if high > n {
			high = n
		}
		seg.SetAll()
		for _, p := range base.Values() {
			if p*p > high {
				break
			}
			start := (low + p - 1) / p * p
			if start < p*p {
				start = p * p
			}
			seg.ClearStepsSIMD(p, start-low, high-low)
		}
		for i := uint64(0); i <= high-low; i++ {
			if seg.IsSet(i) {
				primes.Push(low + i)
			}
		}
	}
	primes.ResizeToFit()
	return primes, nil
}

// SoEu is the Euler (linear) sieve: every composite is cleared exactly
// once, by its smallest prime factor.
func SoEu(n uint64) (*uvec.U64, error) {
	if err := checkDomain(n); err != nil {
		return nil, err
	}
	composite, err := bitmap.New(n+1, false)
	if err != nil {
		return nil, err
	}
	primes := uvec.NewU64(estimate(n))
	for i := uint64(2); i <= n; i++ {
		if !composite.IsSet(i) {
			primes.Push(i)
		}
		for _, p := range primes.Values() {
			if p*i > n {
				break
			}
			composite.Set(p * i)
			if i%p == 0 {
				break
			}
		}
	}
	return primes, nil
}

// SoS is the Sieve of Sundaram: removing i + j + 2ij leaves exactly
// the odd primes as 2k+1.
func SoS(n uint64) (*uvec.U64, error) {
	if err := checkDomain(n); err != nil {
		return nil, err
	}
	k := (n - 1) / 2
	marks, err := bitmap.New(k+1, true)
	if err != nil {
		return nil, err
	}
	for i := uint64(1); i <= k; i++ {
		// j >= i; first removal i + i + 2*i*i
		first := 2*i + 2*i*i
		if first > k {
			break
		}
		marks.ClearStepsSIMD(2*i+1, first, k)
	}
	primes := uvec.NewU64(estimate(n))
	primes.Push(2)
	for i := uint64(1); i <= k; i++ {
		if marks.IsSet(i) {
			primes.Push(2*i + 1)
		}
	}
	primes.ResizeToFit()
	return primes, nil
}

// SoA is the Sieve of Atkin with the standard three quadratic forms
// and a square-free pass.
func SoA(n uint64) (*uvec.U64, error) {
	if err := checkDomain(n); err != nil {
		return nil, err
	}
	marks, err := bitmap.New(n+1, false)
	if err != nil {
		return nil, err
	}
	limit := uint64(math.Sqrt(float64(n))) + 1
	for x := uint64(1); x <= limit; x++ {
		for y := uint64(1); y <= limit; y++ {
			v := 4*x*x + y*y
			if v <= n && (v%12 == 1 || v%12 == 5) {
				marks.Flip(v)
			}
			v = 3*x*x + y*y
			if v <= n && v%12 == 7 {
				marks.Flip(v)
			}
			if x > y {
				v = 3*x*x - y*y
				if v <= n && v%12 == 11 {
					marks.Flip(v)
				}
			}
		}
	}
	for p := uint64(5); p <= limit; p++ {
		if marks.IsSet(p) {
			marks.ClearStepsSIMD(p*p, p*p, n)
		}
	}
	primes := uvec.NewU64(estimate(n))
	primes.Push(2)
	primes.Push(3)
	for v := uint64(5); v <= n; v++ {
		if marks.IsSet(v) {
			primes.Push(v)
		}
	}
	primes.ResizeToFit()
	return primes, nil
}
