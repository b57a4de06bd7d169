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
	"math/big"
)

// Bases beyond 2^2048 walk with the wider wheel, where the higher
// base-construction cost amortizes against the sparser prime density.
const nextPrimeBitThreshold = 2048

// NextPrime returns the nearest prime strictly beyond base in the
// chosen direction (forward means larger). Candidates pass through
// the pre-sieved wheel base before the probabilistic test sees them.
func NextPrime(base *big.Int, forward bool) (*big.Int, error) {
	if base.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative base", ErrDomain)
	}
	if base.IsUint64() && base.Uint64() <= sPrimes[len(sPrimes)-1]-2 {
		if p, ok := nextSmallTablePrime(base.Uint64(), forward); ok {
			return new(big.Int).SetUint64(p), nil
		}
		return nil, fmt.Errorf("%w: no prime below %s", ErrDomain, base)
	}

	// fast path: from one line of a cell, the other line is only two
	// away
	mod6 := new(big.Int).Mod(base, bigSix).Uint64()
	if forward && mod6 == 5 {
		if c := new(big.Int).Add(base, big.NewInt(2)); checkPrimality(c, MRRounds) {
			return c, nil
		}
	}
	if !forward && mod6 == 1 {
		if c := new(big.Int).Sub(base, big.NewInt(2)); checkPrimality(c, MRRounds) {
			return c, nil
		}
	}

	vx := VX5
	if base.BitLen() > nextPrimeBitThreshold {
		vx = VX6
	}
	m, err := NewIZM(vx)
	if err != nil {
		return nil, err
	}

	vxB := new(big.Int).SetUint64(vx)
	xg := new(big.Int).Div(base, bigSix)
	// 1-based local mapping: y = (xg-1)/vx, x = xg - y*vx
	y := new(big.Int).Sub(xg, bigOne)
	y.Div(y, vxB)
	yvx := new(big.Int).Mul(y, vxB)
	x := new(big.Int).Sub(xg, yvx).Uint64()

	test := func(x uint64, line int) *big.Int {
		var bm = m.BaseX5
		if line > 0 {
			bm = m.BaseX7
		}
		if !bm.IsSet(x) {
			return nil
		}
		c := izAt(yvx, x, line)
		if forward && c.Cmp(base) <= 0 {
			return nil
		}
		if !forward && c.Cmp(base) >= 0 {
			return nil
		}
		if checkPrimality(c, MRRounds) {
			return c
		}
		return nil
	}

	if forward {
		for {
			for ; x <= vx; x++ {
				if p := test(x, -1); p != nil {
					return p, nil
				}
				if p := test(x, +1); p != nil {
					return p, nil
				}
			}
			yvx.Add(yvx, vxB)
			x = 1
		}
	}
	for {
		for ; x >= 1; x-- {
			if p := test(x, +1); p != nil {
				return p, nil
			}
			if p := test(x, -1); p != nil {
				return p, nil
			}
		}
		yvx.Sub(yvx, vxB)
		if yvx.Sign() < 0 {
			// walked below the wheel; the candidates left are the
			// wheel primes themselves
			p, _ := nextSmallTablePrime(sPrimes[len(sPrimes)-1], false)
			return new(big.Int).SetUint64(p), nil
		}
		x = vx
	}
}

// nextSmallTablePrime answers next/previous-prime queries from the
// wheel table; ok is false when there is no previous prime.
func nextSmallTablePrime(base uint64, forward bool) (uint64, bool) {
	if forward {
		for _, p := range sPrimes {
			if p > base {
				return p, true
			}
		}
		// base is capped below the table maximum by the caller
		return 0, false
	}
	var prev uint64
	for _, p := range sPrimes {
		if p >= base {
			break
		}
		prev = p
	}
	return prev, prev != 0
}
