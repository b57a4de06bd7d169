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

import "math/big"

// lineOf returns the line a prime p > 3 lives on: +1 when p = 6k+1,
// -1 when p = 6k-1.
func lineOf(p uint64) int {
	if p%6 == 1 {
		return 1
	}
	return -1
}

// targetResidue returns the residue class (mod p) of the x positions
// on line mID whose iZ value is divisible by p.
func targetResidue(mID int, p uint64) uint64 {
	xp := (p + 1) / 6
	if mID == lineOf(p) {
		return xp
	}
	return p - xp
}

// SolveX0 returns the first x within the VX segment at row y whose
// iZ(y*vx + x, mID) is divisible by p.
//
// At y = 0 the result is the first composite hit (near p^2/6), so p
// itself is never marked. For y > 0 the result is the canonical
// solution in [0, p-1], shifted to p when p fits inside the segment,
// since local position 0 belongs to the previous row.
func SolveX0(mID int, p, vx, y uint64) uint64 {
	xp := (p + 1) / 6
	ip := lineOf(p)
	if y == 0 {
		if mID == ip {
			return xp * (p + 1)
		}
		return xp * (p - 1)
	}
	nxp := targetResidue(mID, p)
	d := ((y%p)*(vx%p) + p - nxp) % p
	x := (p - d) % p
	if p < vx && x == 0 {
		x = p
	}
	return x
}

// SolveX0Big is SolveX0 for rows beyond the 64-bit range.
func SolveX0Big(mID int, p, vx uint64, y *big.Int) uint64 {
	if y.Sign() == 0 {
		return SolveX0(mID, p, vx, 0)
	}
	pb := new(big.Int).SetUint64(p)
	ym := new(big.Int).Mod(y, pb).Uint64()
	nxp := targetResidue(mID, p)
	d := ((ym%p)*(vx%p) + p - nxp) % p
	x := (p - d) % p
	if p < vx && x == 0 {
		x = p
	}
	return x
}

// SolveY0 returns the first row y >= 0 at which column x on line mID
// holds a multiple of p. ok is false when gcd(vx, p) != 1: stepping by
// vx never changes the residue mod p, so no solution exists.
func SolveY0(mID int, p, vx, x uint64) (uint64, bool) {
	nxp := targetResidue(mID, p) % p
	xm := x % p
	if xm == nxp {
		return 0, true
	}
	inv, ok := modularInverse(vx%p, p)
	if !ok {
		return 0, false
	}
	delta := (nxp + p - xm) % p
	return (delta * inv) % p, true
}
