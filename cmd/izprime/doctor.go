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

package main

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/Zprime137/iZprime/internal/platform"
	"github.com/Zprime137/iZprime/internal/simd"
	"github.com/Zprime137/iZprime/iz"
)

// entry point for 'izprime doctor'
func cmdDoctor() {
	fmt.Printf("platform:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("logical cpus:   %d\n", platform.CPUCores())
	l2 := platform.L2CacheBits()
	fmt.Printf("l2 cache:       %d bits (%d KiB)", l2, l2/8/1024)
	if l2 == platform.DefaultL2CacheBits {
		fmt.Print("  [fallback]")
	}
	fmt.Println()
	fmt.Printf("avx2:           %v\n", cpu.X86.HasAVX2)
	fmt.Printf("avx512:         %v\n", cpu.X86.HasAVX512F)
	fmt.Printf("wide kernel:    %v\n", simd.HasWideKernel)

	var buf [8]byte
	fmt.Printf("entropy:        ")
	if platform.FillRandom(buf[:]) {
		fmt.Println("system source")
	} else {
		fmt.Println("time fallback (degraded)")
	}
	fmt.Printf("l2 vx pick:     %d (for 10^9 windows)\n", iz.ComputeL2VX(1_000_000_000))
	fmt.Printf("workers:        in-process, cloned contexts\n")
}
