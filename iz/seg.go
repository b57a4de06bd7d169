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
	"io"
	"math/big"
	"strconv"

	"github.com/Zprime137/iZprime/bitmap"
	"github.com/Zprime137/iZprime/uvec"
)

// Segment is the per-row sieve state for one VX window at row y.
// Construction clones the pre-sieved bases and immediately runs the
// deterministic stage; the probabilistic stage runs on demand when
// the row straddles the sqrt threshold.
type Segment struct {
	VX  uint64
	Y   *big.Int
	YVX *big.Int // y*vx, cached

	// RootLimit is floor(sqrt(6*(yvx+vx)+1)): primes above it cannot
	// contribute composites inside this row.
	RootLimit *big.Int

	// IsLargeLimit is true while root primes in (vx, RootLimit]
	// remain unenumerated; survivors then need probabilistic
	// verification. The probabilistic stage flips it off.
	IsLargeLimit bool

	MRRounds int

	StartX, EndX uint64 // inclusive x range covered, within [1, vx]

	X5, X7 *bitmap.Bitmap

	// PCount is the number of primes in [StartX, EndX] once the
	// applicable stages have run.
	PCount uint64

	// PGaps optionally holds the 16-bit prime-gap encoding produced
	// by CollectGaps.
	PGaps *uvec.U16
}

// NewSegment initializes a segment over [startX, endX] at row y and
// runs the deterministic stage.
func NewSegment(m *IZM, startX, endX uint64, y *big.Int, mrRounds int) (*Segment, error) {
	if startX < 1 || endX > m.VX || startX > endX {
		return nil, fmt.Errorf("%w: segment bounds [%d, %d] with vx=%d",
			ErrDomain, startX, endX, m.VX)
	}
	if y.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative segment row", ErrDomain)
	}
	if mrRounds <= 0 {
		mrRounds = MRRounds
	}
	yvx := new(big.Int).Mul(y, new(big.Int).SetUint64(m.VX))
	// root limit: sqrt(6*(yvx+vx)+1)
	rl := new(big.Int).Add(yvx, new(big.Int).SetUint64(m.VX))
	rl.Mul(rl, bigSix)
	rl.Add(rl, bigOne)
	rl.Sqrt(rl)

	s := &Segment{
		VX:           m.VX,
		Y:            new(big.Int).Set(y),
		YVX:          yvx,
		RootLimit:    rl,
		IsLargeLimit: !rl.IsUint64() || rl.Uint64() > m.VX,
		MRRounds:     mrRounds,
		StartX:       startX,
		EndX:         endX,
		X5:           m.BaseX5.Clone(),
		X7:           m.BaseX7.Clone(),
	}
	s.detSieve(m)
	return s, nil
}

// detSieve marks composites of every enumerable root prime. The wheel
// primes baked into the bases are skipped; so are 2 and 3, which have
// no representation on either line.
func (s *Segment) detSieve(m *IZM) {
	limit := s.VX
	if !s.IsLargeLimit {
		limit = s.RootLimit.Uint64()
	}
	roots := m.RootPrimes
	yFits := s.Y.IsUint64()
	var yU uint64
	if yFits {
		yU = s.Y.Uint64()
	}
	for i := 2 + m.KVX; i < roots.Len(); i++ {
		p := roots.At(i)
		if p > limit {
			break
		}
		var x0m, x0p uint64
		if yFits {
			x0m = SolveX0(-1, p, s.VX, yU)
			x0p = SolveX0(+1, p, s.VX, yU)
		} else {
			x0m = SolveX0Big(-1, p, s.VX, s.Y)
			x0p = SolveX0Big(+1, p, s.VX, s.Y)
		}
		s.X5.ClearStepsSIMD(p, x0m, s.EndX)
		s.X7.ClearStepsSIMD(p, x0p, s.EndX)
	}
	if !s.IsLargeLimit {
		s.PCount = s.X5.CountRange(s.StartX, s.EndX) +
			s.X7.CountRange(s.StartX, s.EndX)
	}
}

// probSieve verifies every surviving candidate probabilistically,
// clearing the ones that turn out composite. Only meaningful while
// IsLargeLimit holds; afterwards the bitmaps hold probable primes
// exclusively and PCount is final.
func (s *Segment) probSieve() {
	if !s.IsLargeLimit {
		return
	}
	start := s.StartX
	if start < 1 {
		start = 1
	}
	var count uint64
	for x := start; x <= s.EndX; x++ {
		if s.X5.IsSet(x) {
			if checkPrimality(izAt(s.YVX, x, -1), s.MRRounds) {
				count++
			} else {
				s.X5.Clear(x)
			}
		}
		if s.X7.IsSet(x) {
			if checkPrimality(izAt(s.YVX, x, +1), s.MRRounds) {
				count++
			} else {
				s.X7.Clear(x)
			}
		}
	}
	s.PCount = count
	s.IsLargeLimit = false
}

// FullSieve completes the segment: the probabilistic stage when
// needed, then optionally the gap encoding.
func (s *Segment) FullSieve(collectGaps bool) {
	s.probSieve()
	if collectGaps {
		s.CollectGaps()
	}
}

// CollectGaps encodes the surviving primes as 16-bit gaps from a
// notional predecessor just before the segment. Row zero never uses
// gaps (the wheel primes are missing from its bitmaps), so it is
// skipped here; callers handle that row separately.
func (s *Segment) CollectGaps() {
	if s.Y.Sign() == 0 {
		return
	}
	gaps := uvec.NewU16(int(s.EndX-s.StartX)/4 + 8)
	gap := uint64(0)
	for x := s.StartX; x <= s.EndX; x++ {
		gap += 4 // from line +1 at x-1 to line -1 at x
		if s.X5.IsSet(x) {
			gaps.Push(uint16(gap))
			gap = 0
		}
		gap += 2 // from line -1 to line +1 at the same x
		if s.X7.IsSet(x) {
			gaps.Push(uint16(gap))
			gap = 0
		}
	}
	gaps.Push(uint16(gap))
	gaps.ResizeToFit()
	s.PGaps = gaps
}

// Stream writes the segment's primes as decimal text separated by
// single spaces. When the segment is large-limit the probabilistic
// check runs inline and composites are cleared, leaving PCount
// consistent with FullSieve. lo and hi optionally restrict emission
// (inclusive); they do not affect PCount.
func (s *Segment) Stream(w io.Writer, lo, hi *big.Int) (uint64, error) {
	wasLarge := s.IsLargeLimit
	var pc, emitted uint64
	var scratch []byte

	emit := func(x uint64, m int) error {
		c := izAt(s.YVX, x, m)
		if wasLarge {
			if !checkPrimality(c, s.MRRounds) {
				if m < 0 {
					s.X5.Clear(x)
				} else {
					s.X7.Clear(x)
				}
				return nil
			}
		}
		pc++
		if lo != nil && c.Cmp(lo) < 0 {
			return nil
		}
		if hi != nil && c.Cmp(hi) > 0 {
			return nil
		}
		if c.IsUint64() {
			scratch = strconv.AppendUint(scratch[:0], c.Uint64(), 10)
		} else {
			scratch = c.Append(scratch[:0], 10)
		}
		scratch = append(scratch, ' ')
		if _, err := w.Write(scratch); err != nil {
			return err
		}
		emitted++
		return nil
	}

	start := s.StartX
	if start < 1 {
		start = 1
	}
	for x := start; x <= s.EndX; x++ {
		if s.X5.IsSet(x) {
			if err := emit(x, -1); err != nil {
				return emitted, err
			}
		}
		if s.X7.IsSet(x) {
			if err := emit(x, +1); err != nil {
				return emitted, err
			}
		}
	}
	if wasLarge {
		s.PCount = pc
		s.IsLargeLimit = false
	}
	return emitted, nil
}
