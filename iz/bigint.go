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
	"math/rand"

	"github.com/Zprime137/iZprime/internal/platform"
)

var (
	bigOne = big.NewInt(1)
	bigSix = big.NewInt(6)
)

// checkPrimality is the single source of truth for probabilistic
// primality. It wraps (*big.Int).ProbablyPrime, which runs the given
// number of Miller-Rabin rounds plus a Lucas test.
func checkPrimality(n *big.Int, rounds int) bool {
	if rounds < 1 {
		rounds = MRRounds
	}
	return n.ProbablyPrime(rounds)
}

// izAt returns 6*(yvx+x) + m as a fresh big value.
func izAt(yvx *big.Int, x uint64, m int) *big.Int {
	t := new(big.Int).SetUint64(x)
	t.Add(t, yvx)
	t.Mul(t, bigSix)
	if m < 0 {
		return t.Sub(t, bigOne)
	}
	return t.Add(t, bigOne)
}

// newRand returns a scoped pseudo-random generator seeded from the
// platform entropy source. Search routines own one generator each;
// there is no process-wide random state.
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(platform.RandomSeed()))
}

// randBits draws a uniform value in [0, 2^k).
func randBits(rng *rand.Rand, k int) *big.Int {
	if k <= 0 {
		return new(big.Int)
	}
	buf := make([]byte, (k+7)/8)
	rng.Read(buf)
	if rem := k % 8; rem != 0 {
		buf[0] &= byte(1<<rem) - 1
	}
	return new(big.Int).SetBytes(buf)
}

// randBelow draws a uniform value in [0, n) for n > 0.
func randBelow(rng *rand.Rand, n *big.Int) *big.Int {
	bits := n.BitLen()
	for {
		v := randBits(rng, bits)
		if v.Cmp(n) < 0 {
			return v
		}
	}
}
