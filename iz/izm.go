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

	"github.com/Zprime137/iZprime/bitmap"
	"github.com/Zprime137/iZprime/uvec"
)

// IZM holds the reusable assets for sieving one VX window over and
// over: the pre-sieved base bitmaps for both lines and the root-prime
// table. It is built once per job and deep-cloned per worker.
type IZM struct {
	VX  uint64 // segment width in x units
	KVX int    // wheel primes dividing VX (pre-sieved in the bases)

	// BaseX5 and BaseX7 have vx+1 bits; bit x is set iff
	// gcd(iZ(x, line), vx) == 1.
	BaseX5, BaseX7 *bitmap.Bitmap

	// RootPrimes holds every prime <= vx in ascending order,
	// starting 2, 3, then the KVX wheel primes.
	RootPrimes *uvec.U64
}

// NewIZM builds the pre-sieved window for vx, which must be a product
// of consecutive wheel primes starting at 5 (35, 385, 5005, ...).
func NewIZM(vx uint64) (*IZM, error) {
	kvx, err := validateVX(vx)
	if err != nil {
		return nil, err
	}
	x5, x7, err := constructVXBase(vx)
	if err != nil {
		return nil, err
	}
	roots, err := SiZ(vx)
	if err != nil {
		return nil, fmt.Errorf("root primes for vx=%d: %w", vx, err)
	}
	roots.ResizeToFit()
	return &IZM{
		VX:         vx,
		KVX:        kvx,
		BaseX5:     x5,
		BaseX7:     x7,
		RootPrimes: roots,
	}, nil
}

// Clone deep-copies the context for exclusive use by one worker.
func (m *IZM) Clone() *IZM {
	roots := uvec.NewU64(m.RootPrimes.Len())
	for _, p := range m.RootPrimes.Values() {
		roots.Push(p)
	}
	return &IZM{
		VX:         m.VX,
		KVX:        m.KVX,
		BaseX5:     m.BaseX5.Clone(),
		BaseX7:     m.BaseX7.Clone(),
		RootPrimes: roots,
	}
}

// validateVX checks the VX shape and returns the wheel-prime count.
func validateVX(vx uint64) (int, error) {
	if vx < VX2 {
		return 0, fmt.Errorf("%w: vx=%d below %d", ErrDomain, vx, VX2)
	}
	rest := vx
	kvx := 0
	for _, p := range sPrimes[2:] {
		if rest%p != 0 {
			break
		}
		rest /= p
		kvx++
	}
	if rest != 1 {
		return 0, fmt.Errorf("%w: vx=%d is not a product of consecutive wheel primes", ErrDomain, vx)
	}
	return kvx, nil
}

// constructVXBase builds the pre-sieved bitmaps for one VX window.
// Both have vx+1 bits; every multiple of a wheel prime dividing vx is
// cleared, including the wheel primes themselves.
func constructVXBase(vx uint64) (x5, x7 *bitmap.Bitmap, err error) {
	x5, err = bitmap.New(vx+1, true)
	if err != nil {
		return nil, nil, err
	}
	x7, err = bitmap.New(vx+1, true)
	if err != nil {
		return nil, nil, err
	}
	x5.Clear(0)
	x7.Clear(0)
	for _, p := range sPrimes[2:] {
		if vx%p != 0 {
			break
		}
		xp := (p + 1) / 6
		same, other := x7, x5
		if lineOf(p) < 0 {
			same, other = x5, x7
		}
		// positions x = xp (mod p) on p's own line, starting at p
		// itself, and x = p-xp (mod p) on the other line
		same.ClearStepsSIMD(p, xp, vx)
		other.ClearStepsSIMD(p, p-xp, vx)
	}
	return x5, x7, nil
}
