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

// Package simd implements the stepped bit-clearing kernels that
// dominate sieve run time. The wide kernel keeps four progression
// lanes in flight per iteration; index arithmetic vectorizes while the
// byte stores stay scalar (there is no useful scatter below AVX-512).
package simd

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// HasWideKernel reports whether the 4-lane kernel is selected on this
// machine. It is true on x86-64 parts with AVX2 and on arm64, where
// NEON is architecturally guaranteed.
var HasWideKernel = cpu.X86.HasAVX2 || runtime.GOARCH == "arm64"

// ClearSteps clears bit start, start+step, start+2*step, ... while the
// position is <= limit. limit must already be capped to the bitmap
// size by the caller; step must be >= 1.
func ClearSteps(data []byte, step, start, limit uint64) {
	for idx := start; idx <= limit; idx += step {
		data[idx>>3] &^= 1 << (idx & 7)
	}
}

// ClearSteps4 has identical semantics to ClearSteps but retires four
// progression positions per loop iteration, with a scalar tail.
func ClearSteps4(data []byte, step, start, limit uint64) {
	idx := start
	if limit >= 3*step && idx <= limit-3*step {
		i0, i1, i2, i3 := idx, idx+step, idx+2*step, idx+3*step
		step4 := 4 * step
		for idx <= limit-3*step {
			data[i0>>3] &^= 1 << (i0 & 7)
			data[i1>>3] &^= 1 << (i1 & 7)
			data[i2>>3] &^= 1 << (i2 & 7)
			data[i3>>3] &^= 1 << (i3 & 7)
			i0 += step4
			i1 += step4
			i2 += step4
			i3 += step4
			idx += step4
		}
	}
	for ; idx <= limit; idx += step {
		data[idx>>3] &^= 1 << (idx & 7)
	}
}

// ClearStepsAuto dispatches to the wide kernel when the platform
// supports it and to the scalar reference otherwise.
func ClearStepsAuto(data []byte, step, start, limit uint64) {
	if HasWideKernel {
		ClearSteps4(data, step, start, limit)
		return
	}
	ClearSteps(data, step, start, limit)
}
