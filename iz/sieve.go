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
	"fmt"
	"math"

	"github.com/Zprime137/iZprime/bitmap"
	"github.com/Zprime137/iZprime/uvec"
)

// checkSieveDomain rejects limits the classic sieves do not cover.
func checkSieveDomain(n uint64) error {
	if n <= 10 || n > sieveMaxN {
		return fmt.Errorf("%w: n=%d not in (10, 10^12]", ErrDomain, n)
	}
	return nil
}

// primeCountEstimate over-approximates pi(n) for allocation sizing.
func primeCountEstimate(n uint64) int {
	if n < 17 {
		return 8
	}
	return int(float64(n)/(math.Log(float64(n))-1.12)) + 16
}

// processIZBitmaps runs the classic inner loop over a pair of line
// bitmaps: emit every surviving x as a prime and, while the prime can
// still contribute composites below the limit, clear its progressions
// on both lines. x ranges over [1, xLimit].
func processIZBitmaps(primes *uvec.U64, x5, x7 *bitmap.Bitmap, xLimit uint64) {
	rootLimit := isqrt(6*xLimit) + 1
	for x := uint64(1); x <= xLimit; x++ {
		if x5.IsSet(x) {
			p := 6*x - 1
			primes.Push(p)
			if p <= rootLimit {
				x5.ClearStepsSIMD(p, p*x+x, xLimit)
				x7.ClearStepsSIMD(p, p*x-x, xLimit)
			}
		}
		if x7.IsSet(x) {
			p := 6*x + 1
			primes.Push(p)
			if p <= rootLimit {
				x5.ClearStepsSIMD(p, p*x-x, xLimit)
				x7.ClearStepsSIMD(p, p*x+x, xLimit)
			}
		}
	}
}

// SiZ sieves [2, n] over the whole iZ space: one bitmap per line,
// composite runs cleared as soon as each root prime surfaces.
// Output is ascending.
func SiZ(n uint64) (*uvec.U64, error) {
	if err := checkSieveDomain(n); err != nil {
		return nil, err
	}
	xn := n/6 + 1
	x5, err := bitmap.New(xn+1, true)
	if err != nil {
		return nil, err
	}
	x7, err := bitmap.New(xn+1, true)
	if err != nil {
		return nil, err
	}
	x5.Clear(0)
	x7.Clear(0)

	primes := uvec.NewU64(primeCountEstimate(n))
	primes.Push(2)
	primes.Push(3)
	processIZBitmaps(primes, x5, x7, xn)
	trimAbove(primes, n)
	return primes, nil
}

// SiZm is the cache-aware segmented sieve with ordered output. The
// window width comes from the L2 heuristic; row zero doubles as the
// root-prime enumeration for all later rows.
func SiZm(n uint64) (*uvec.U64, error) {
	if err := checkSieveDomain(n); err != nil {
		return nil, err
	}
	vx := ComputeL2VX(n)
	kvx, err := validateVX(vx)
	if err != nil {
		return nil, err
	}
	// row zero must surface every root prime up to sqrt(n); widen the
	// window if the cache heuristic picked one too narrow for that
	for sq := isqrt(n) + 2; 6*vx+1 < sq && 2+kvx < len(sPrimes); {
		vx *= sPrimes[2+kvx]
		kvx++
	}
	xn := n/6 + 1
	if vx >= xn {
		// window covers the whole space; no segmentation to do
		return SiZ(n)
	}
	baseX5, baseX7, err := constructVXBase(vx)
	if err != nil {
		return nil, err
	}

	primes := uvec.NewU64(primeCountEstimate(n))
	primes.Push(2)
	primes.Push(3)
	for _, p := range sPrimes[2 : 2+kvx] {
		primes.Push(p)
	}

	// row zero: classic inner loop confined to [1, vx]; survivors are
	// the root primes for every later row
	x5 := baseX5.Clone()
	x7 := baseX7.Clone()
	processIZBitmaps(primes, x5, x7, vx)

	rootStart := 2 + kvx
	yMax := xn / vx
	for y := uint64(1); y <= yMax; y++ {
		segLimit := vx
		if y == yMax {
			segLimit = xn - y*vx
			if segLimit == 0 {
				break
			}
		}
		x5.CopyFrom(baseX5)
		x7.CopyFrom(baseX7)

		bound := 6*(y*vx+segLimit) + 1
		for i := rootStart; i < primes.Len(); i++ {
			p := primes.At(i)
			if p*p > bound {
				break
			}
			x5.ClearStepsSIMD(p, SolveX0(-1, p, vx, y), segLimit)
			x7.ClearStepsSIMD(p, SolveX0(+1, p, vx, y), segLimit)
		}
		for x := uint64(1); x <= segLimit; x++ {
			if x5.IsSet(x) {
				primes.Push(6*(y*vx+x) - 1)
			}
			if x7.IsSet(x) {
				primes.Push(6*(y*vx+x) + 1)
			}
		}
	}
	trimAbove(primes, n)
	primes.ResizeToFit()
	return primes, nil
}

// SiZmVY is the vertical segmented sieve: it fixes a column x and
// sweeps all rows before moving on, trading output order for a single
// cache-resident column bitmap. The result is marked unordered.
func SiZmVY(n uint64) (*uvec.U64, error) {
	if err := checkSieveDomain(n); err != nil {
		return nil, err
	}
	rootBound := isqrt(n)
	if rootBound <= 10 {
		return SiZ(n)
	}
	roots, err := SiZ(rootBound)
	if err != nil {
		return nil, err
	}

	vx := VX2
	if n >= 1_000_000_000 {
		vx *= 11
	}
	if n >= 100_000_000_000 {
		vx *= 13
	}
	kvx := 0
	for _, p := range sPrimes[2:] {
		if vx%p != 0 {
			break
		}
		kvx++
	}

	xn := n/6 + 1
	vy := xn/vx + 1
	col, err := bitmap.New(vy, true)
	if err != nil {
		return nil, err
	}

	// root primes mark their own cells below (each column's first hit
	// is the prime itself), so they are emitted up front
	primes := uvec.NewU64(primeCountEstimate(n))
	for _, p := range roots.Values() {
		primes.Push(p)
	}

	rootStart := 2 + kvx
	for _, line := range []int{-1, 1} {
		for x := uint64(2); x <= vx; x++ {
			if gcd(IZ(x, line), vx) != 1 {
				continue
			}
			col.SetAll()
			for i := rootStart; i < roots.Len(); i++ {
				p := roots.At(i)
				y0, ok := SolveY0(line, p, vx, x)
				if !ok {
					continue
				}
				col.ClearStepsSIMD(p, y0, vy-1)
			}
			for y := uint64(0); y < vy; y++ {
				if !col.IsSet(y) {
					continue
				}
				v := IZ(y*vx+x, line)
				if v > n {
					break
				}
				if v <= rootBound {
					continue // already emitted with the roots
				}
				primes.Push(v)
			}
		}
	}
	primes.MarkUnordered()
	primes.ResizeToFit()
	return primes, nil
}

// trimAbove pops trailing values beyond n; the last bitmap cell can
// overshoot the requested limit by a few units.
func trimAbove(primes *uvec.U64, n uint64) {
	for primes.Len() > 0 && primes.Last() > n {
		primes.Pop()
	}
}
