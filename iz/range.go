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
	"math"
	"math/big"
	"strconv"
	"sync"

	"github.com/Zprime137/iZprime/ints"
)

// RangeInput configures a stream or count over the inclusive interval
// [Zs, Zs+Range-1], with Zs parsed from the decimal Start string.
type RangeInput struct {
	Start    string // decimal start of the interval
	Range    uint64 // interval width; must be >= 1
	MRRounds int    // probabilistic rounds, clamped to [5, 50]

	// Output, when non-nil, receives streamed primes. StreamRange
	// counts but discards output when it is nil.
	Output io.Writer

	// Logf, when non-nil, receives progress and degradation notices.
	Logf func(string, ...interface{})
}

func (in *RangeInput) logf(f string, args ...interface{}) {
	if in.Logf != nil {
		in.Logf(f, args...)
	}
}

// rangeInfo maps the interval onto iZ/VX coordinates.
type rangeInfo struct {
	vx     uint64
	zs, ze *big.Int
	xs, xe *big.Int
	ys, ye *big.Int
}

func newRangeInfo(in *RangeInput, vx uint64) (*rangeInfo, error) {
	if in.Range == 0 {
		return nil, fmt.Errorf("%w: empty range", ErrDomain)
	}
	zs, ok := new(big.Int).SetString(in.Start, 10)
	if !ok || zs.Sign() < 0 {
		return nil, fmt.Errorf("%w: bad range start %q", ErrDomain, in.Start)
	}
	ze := new(big.Int).Add(zs, new(big.Int).SetUint64(in.Range-1))
	vxB := new(big.Int).SetUint64(vx)
	xs := new(big.Int).Div(zs, bigSix)
	xe := new(big.Int).Div(ze, bigSix)
	ys := new(big.Int).Div(xs, vxB)
	ye := new(big.Int).Div(xe, vxB)
	yRange := new(big.Int).Sub(ye, ys)
	if !yRange.IsInt64() || yRange.Int64() > math.MaxInt32 {
		return nil, fmt.Errorf("%w: y-span overflows 32 bits", ErrDomain)
	}
	return &rangeInfo{vx: vx, zs: zs, ze: ze, xs: xs, xe: xe, ys: ys, ye: ye}, nil
}

// segRow is one VX row and the local x bounds to cover within it.
type segRow struct {
	y            *big.Int
	startX, endX uint64
}

// segPlan enumerates the rows covering the global cells
// [xStart, xEnd] under the 1-based local mapping x = X - y*vx.
// Rows are derived on demand so a wide range costs no memory.
type segPlan struct {
	vx           uint64
	xStart, xEnd *big.Int
	yFirst       *big.Int
	rows         int
}

func newSegPlan(vx uint64, xStart, xEnd *big.Int) *segPlan {
	p := &segPlan{vx: vx, xStart: xStart, xEnd: xEnd}
	if xStart.Cmp(xEnd) > 0 {
		return p
	}
	vxB := new(big.Int).SetUint64(vx)
	rowOf := func(x *big.Int) *big.Int {
		t := new(big.Int).Sub(x, bigOne)
		return t.Div(t, vxB)
	}
	p.yFirst = rowOf(xStart)
	span := new(big.Int).Sub(rowOf(xEnd), p.yFirst)
	p.rows = int(span.Int64()) + 1
	return p
}

// row returns the i-th row of the plan, 0 <= i < rows.
func (p *segPlan) row(i int) segRow {
	y := new(big.Int).Add(p.yFirst, big.NewInt(int64(i)))
	base := new(big.Int).Mul(y, new(big.Int).SetUint64(p.vx))
	startX, endX := uint64(1), p.vx
	if i == 0 {
		startX = new(big.Int).Sub(p.xStart, base).Uint64()
	}
	if i == p.rows-1 {
		endX = new(big.Int).Sub(p.xEnd, base).Uint64()
	}
	return segRow{y: y, startX: startX, endX: endX}
}

// rowZeroPrimes runs the ordered segmented sieve over the wheel's
// first window and filters the survivors into [zs, ze].
func rowZeroPrimes(vx uint64, lastRow bool, xe, zs, ze *big.Int) ([]uint64, error) {
	limit := 6*vx + 1
	if lastRow {
		// the interval ends inside row zero; cover cell xe+1 so a
		// bound of the form 6x+5 is not missed, and filter below
		limit = (xe.Uint64() + 2) * 6
	}
	if limit <= sPrimes[len(sPrimes)-1] {
		// tiny interval: answer from the wheel table
		var out []uint64
		for _, p := range sPrimes {
			pb := new(big.Int).SetUint64(p)
			if pb.Cmp(zs) >= 0 && pb.Cmp(ze) <= 0 {
				out = append(out, p)
			}
		}
		return out, nil
	}
	primes, err := SiZm(limit)
	if err != nil {
		return nil, err
	}
	lo := uint64(0)
	if zs.IsUint64() {
		lo = zs.Uint64()
	}
	hi := uint64(math.MaxUint64)
	if ze.IsUint64() {
		hi = ze.Uint64()
	}
	var out []uint64
	for _, p := range primes.Values() {
		if p >= lo && p <= hi {
			out = append(out, p)
		}
	}
	return out, nil
}

// endpointPlan captures the exact global x cells to sieve beyond row
// zero plus the parent-side corrections for boundary cell values that
// poke outside [zs, ze].
type endpointPlan struct {
	xStart, xEnd *big.Int
	corrections  uint64 // probable primes to subtract from the total
}

// planEndpoints applies the endpoint adjustments once, before any
// dispatch. When ys == 0 the caller covers row zero with exact
// filtering and cells resume right after the first window.
func planEndpoints(info *rangeInfo, mr int) endpointPlan {
	vxB := new(big.Int).SetUint64(info.vx)
	var plan endpointPlan

	if info.ys.Sign() == 0 {
		plan.xStart = new(big.Int).Add(vxB, bigOne)
	} else {
		zmod := new(big.Int).Mod(info.zs, bigSix).Uint64()
		if zmod <= 1 {
			// cell xs stays in: its -1 value sits below zs
			plan.xStart = new(big.Int).Set(info.xs)
			low := IZBig(info.xs, -1)
			if low.Cmp(info.zs) < 0 && checkPrimality(low, mr) {
				plan.corrections++
			}
		} else {
			plan.xStart = new(big.Int).Add(info.xs, bigOne)
		}
	}

	zmod := new(big.Int).Mod(info.ze, bigSix).Uint64()
	if zmod == 5 {
		// the -1 value of cell xe+1 is exactly ze; its +1 value is out
		plan.xEnd = new(big.Int).Add(info.xe, bigOne)
		if checkPrimality(IZBig(plan.xEnd, +1), mr) {
			plan.corrections++
		}
	} else {
		plan.xEnd = new(big.Int).Set(info.xe)
		if zmod == 0 {
			if checkPrimality(IZBig(info.xe, +1), mr) {
				plan.corrections++
			}
		}
	}
	return plan
}

// StreamRange streams every prime in the interval to in.Output as
// space-separated decimal text and returns the count. Row zero runs
// through the ordered sieve; later rows stream segment by segment
// with the interval bounds trimming the edge cells exactly.
func StreamRange(in *RangeInput) (uint64, error) {
	mr := ints.Clamp(in.MRRounds, 5, 50)
	vx := VX6
	info, err := newRangeInfo(in, vx)
	if err != nil {
		return 0, err
	}
	w := in.Output
	if w == nil {
		w = io.Discard
	}

	var total uint64
	xStart := new(big.Int)
	if info.ys.Sign() == 0 {
		head, err := rowZeroPrimes(vx, info.ye.Sign() == 0, info.xe, info.zs, info.ze)
		if err != nil {
			return 0, err
		}
		var scratch []byte
		for _, p := range head {
			scratch = strconv.AppendUint(scratch[:0], p, 10)
			scratch = append(scratch, ' ')
			if _, err := w.Write(scratch); err != nil {
				return total, fmt.Errorf("stream sink: %w", err)
			}
			total++
		}
		if info.ye.Sign() == 0 {
			return total, nil
		}
		xStart.SetUint64(vx + 1)
	} else {
		xStart.Set(info.xs)
	}

	// cover cells through xe+1; the bounds filter trims both edges
	xEnd := new(big.Int).Add(info.xe, bigOne)
	m, err := NewIZM(vx)
	if err != nil {
		return total, err
	}
	plan := newSegPlan(vx, xStart, xEnd)
	for i := 0; i < plan.rows; i++ {
		row := plan.row(i)
		seg, err := NewSegment(m, row.startX, row.endX, row.y, mr)
		if err != nil {
			return total, err
		}
		n, err := seg.Stream(w, info.zs, info.ze)
		total += n
		if err != nil {
			return total, fmt.Errorf("stream sink: %w", err)
		}
	}
	return total, nil
}

// CountRange counts the primes in the interval, partitioning the
// segment rows across up to cores workers. The result is independent
// of the worker count; endpoint corrections are applied once, in the
// parent, before dispatch. A worker failure coerces the count to
// zero and surfaces ErrWorker.
func CountRange(in *RangeInput, cores int) (uint64, error) {
	mr := ints.Clamp(in.MRRounds, 5, 50)
	vx := ComputeL2VX(1_000_000_000)
	info, err := newRangeInfo(in, vx)
	if err != nil {
		return 0, err
	}

	var total uint64
	if info.ys.Sign() == 0 {
		head, err := rowZeroPrimes(vx, info.ye.Sign() == 0, info.xe, info.zs, info.ze)
		if err != nil {
			return 0, err
		}
		total += uint64(len(head))
		if info.ye.Sign() == 0 {
			return total, nil
		}
	}

	plan := planEndpoints(info, mr)
	rows := newSegPlan(vx, plan.xStart, plan.xEnd)
	if rows.rows == 0 {
		// the whole tail fits inside one cell: test the few
		// candidates directly instead of adjusting an empty sum
		return total + countSparse(info, mr), nil
	}

	m, err := NewIZM(vx)
	if err != nil {
		return 0, err
	}

	workers := cores
	if workers > rows.rows {
		workers = rows.rows
	}
	if workers < 1 {
		workers = 1
	}
	in.logf("counting %d segment rows on %d workers (vx=%d)", rows.rows, workers, vx)

	counts := make([]uint64, workers)
	failures := make([]error, workers)
	var wg sync.WaitGroup
	chunk := rows.rows / workers
	rem := rows.rows % workers
	offset := 0
	for wi := 0; wi < workers; wi++ {
		local := chunk
		if wi < rem {
			local++
		}
		first := offset
		offset += local
		wg.Add(1)
		go func(wi, first, local int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failures[wi] = fmt.Errorf("%v", r)
				}
			}()
			wm := m
			if workers > 1 {
				wm = m.Clone()
			}
			var sum uint64
			for i := first; i < first+local; i++ {
				row := rows.row(i)
				seg, err := NewSegment(wm, row.startX, row.endX, row.y, mr)
				if err != nil {
					failures[wi] = err
					return
				}
				seg.FullSieve(false)
				sum += seg.PCount
			}
			counts[wi] = sum
		}(wi, first, local)
	}
	wg.Wait()
	for wi, werr := range failures {
		if werr != nil {
			in.logf("count worker %d failed: %v", wi, werr)
			return 0, fmt.Errorf("%w: worker %d: %v", ErrWorker, wi, werr)
		}
	}
	for _, c := range counts {
		total += c
	}
	return total - plan.corrections, nil
}

// countSparse tests the candidates of cells [xs, xe] directly; used
// when a high, narrow interval never spans a full cell boundary.
func countSparse(info *rangeInfo, mr int) uint64 {
	var n uint64
	x := new(big.Int).Set(info.xs)
	for ; x.Cmp(info.xe) <= 0; x.Add(x, bigOne) {
		for _, m := range []int{-1, +1} {
			c := IZBig(x, m)
			if c.Cmp(info.zs) >= 0 && c.Cmp(info.ze) <= 0 && checkPrimality(c, mr) {
				n++
			}
		}
	}
	return n
}
