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

// Package iz implements wheel-6 segmented prime sieves over the iZ
// index space: the integers 6x-1 and 6x+1, which cover every prime
// above 3. The package provides the classic sieve SiZ, the segmented
// variants SiZm (horizontal, ordered) and SiZmVY (vertical, unordered),
// range streaming and multi-worker counting over arbitrary intervals,
// and probabilistic prime generation for arbitrary-precision targets.
package iz

import (
	"errors"
	"math"
	"math/big"
)

// Standard VX widths: primorial products excluding 2 and 3.
const (
	VX2 uint64 = 5 * 7
	VX3        = VX2 * 11
	VX4        = VX3 * 13
	VX5        = VX4 * 17
	VX6        = VX5 * 19
	VX7        = VX6 * 23
	VX8        = VX7 * 29
)

// MRRounds is the default number of Miller-Rabin rounds.
const MRRounds = 25

// sieveMaxN bounds the classic sieves; above this only range
// counting/streaming and probabilistic generation are supported.
const sieveMaxN = 1_000_000_000_000

var (
	// ErrDomain is returned when an input is outside the supported
	// domain: a sieve limit outside (10, 10^12], an invalid vx, a
	// malformed range, or a y-span that does not fit in 32 bits.
	ErrDomain = errors.New("iz: input outside supported domain")
	// ErrWorker is returned by CountRange when a worker fails;
	// the accompanying count is always zero.
	ErrWorker = errors.New("iz: worker failure")
)

// sPrimes seeds wheel construction and small-input fast paths.
var sPrimes = [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41,
	43, 47, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97}

// IZ maps iZ coordinates to an integer: 6x + i with i in {-1, +1}.
func IZ(x uint64, i int) uint64 {
	if i < 0 {
		return 6*x - 1
	}
	return 6*x + 1
}

// IZBig is the arbitrary-precision IZ; it returns a fresh value.
func IZBig(x *big.Int, i int) *big.Int {
	z := new(big.Int).Lsh(x, 1) // 2x
	z.Add(z, x)                 // 3x
	z.Lsh(z, 1)                 // 6x
	if i < 0 {
		return z.Sub(z, bigOne)
	}
	return z.Add(z, bigOne)
}

// gcd returns the greatest common divisor of a and b.
func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// modularInverse returns the inverse of a modulo m via the extended
// Euclidean algorithm. ok is false when gcd(a, m) != 1.
func modularInverse(a, m uint64) (uint64, bool) {
	if m == 1 {
		return 0, true
	}
	if gcd(a, m) != 1 {
		return 0, false
	}
	m0 := int64(m)
	r0, r1 := int64(m), int64(a%m)
	x0, x1 := int64(0), int64(1)
	for r1 > 1 {
		q := r0 / r1
		r0, r1 = r1, r0-q*r1
		x0, x1 = x1, x0-q*x1
	}
	if x1 < 0 {
		x1 += m0
	}
	return uint64(x1), true
}

// isqrt returns the integer square root of n.
func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	r := uint64(math.Sqrt(float64(n)))
	for r > 0 && r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
