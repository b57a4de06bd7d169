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
	"math"
	"math/big"

	"github.com/Zprime137/iZprime/internal/platform"
	"github.com/Zprime137/iZprime/ints"
)

// ComputeVXK returns the product of the first k wheel primes
// {5, 7, 11, 13, ...}, truncated before 64-bit overflow.
func ComputeVXK(k int) uint64 {
	vx := uint64(1)
	q := uint64(5)
	for i := 0; i < k; i++ {
		if vx > math.MaxUint64/q {
			break
		}
		vx *= q
		q = nextSmallPrime(q)
	}
	return vx
}

// ComputeL2VX picks a VX width whose pair of segment bitmaps stays
// resident in the L2 cache. It starts at VX2 and multiplies in further
// wheel primes only while the product stays below n/6, so for n < 210
// the result (VX2) exceeds n/6.
func ComputeL2VX(n uint64) uint64 {
	target := ints.Min(uint64(platform.L2CacheBits()), n/6)
	vx := VX2
	for q := uint64(11); vx*q < target; q = nextSmallPrime(q) {
		vx *= q
	}
	return vx
}

// ComputeMaxVX returns the largest primorial product (starting at 5)
// below 2^bitSize.
func ComputeMaxVX(bitSize int) *big.Int {
	vx := big.NewInt(1)
	last := big.NewInt(1)
	for q := uint64(5); vx.BitLen() < bitSize; q = nextSmallPrime(q) {
		last.SetUint64(q)
		vx.Mul(vx, last)
	}
	if vx.BitLen() >= bitSize && last.Cmp(bigOne) > 0 {
		vx.Div(vx, last)
	}
	return vx
}

// nextSmallPrime returns the prime after q by trial division; only
// used on wheel-sized inputs.
func nextSmallPrime(q uint64) uint64 {
	for c := q + 2; ; c += 2 {
		if smallIsPrime(c) {
			return c
		}
	}
}

func smallIsPrime(c uint64) bool {
	if c < 2 {
		return false
	}
	if c%2 == 0 {
		return c == 2
	}
	for d := uint64(3); d*d <= c; d += 2 {
		if c%d == 0 {
			return false
		}
	}
	return true
}
