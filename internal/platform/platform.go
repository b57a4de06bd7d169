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

// Package platform answers the handful of machine questions the sieve
// engine cares about: logical core count, L2 data-cache size, entropy,
// and scratch-directory management.
package platform

import (
	"crypto/rand"
	"encoding/binary"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DefaultL2CacheBits is the assumed L2 size when the
// platform does not expose one: 256 KiB expressed in bits.
const DefaultL2CacheBits = 256 * 1024 * 8

// CPUCores returns the number of online logical CPUs (always >= 1).
func CPUCores() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

// L2CacheBits returns the per-core L2 data-cache size in bits.
// On Linux the value is read from sysfs; everywhere else (and on
// read failure) DefaultL2CacheBits is returned.
func L2CacheBits() int {
	if runtime.GOOS != "linux" {
		return DefaultL2CacheBits
	}
	buf, err := os.ReadFile("/sys/devices/system/cpu/cpu0/cache/index2/size")
	if err != nil {
		return DefaultL2CacheBits
	}
	s := strings.TrimSpace(string(buf))
	mult := 1
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1024, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1024*1024, strings.TrimSuffix(s, "M")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return DefaultL2CacheBits
	}
	return n * mult * 8
}

// FillRandom fills buf with cryptographically sound bytes.
// It reports false when the system entropy source is unavailable,
// in which case buf is filled from a blake2b-conditioned fallback
// seeded with the current time and pid.
func FillRandom(buf []byte) bool {
	if _, err := rand.Read(buf); err == nil {
		return true
	}
	var seed [16]byte
	binary.LittleEndian.PutUint64(seed[:8], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint64(seed[8:], uint64(os.Getpid()))
	sum := blake2b.Sum512(seed[:])
	for i := range buf {
		buf[i] = sum[i%len(sum)]
	}
	return false
}

// RandomSeed returns a 64-bit seed for a non-cryptographic RNG,
// drawn from the system entropy source with the FillRandom fallback.
func RandomSeed() int64 {
	var b [8]byte
	FillRandom(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// CreateDir creates dir (and missing parents) unless it already exists.
func CreateDir(dir string) error {
	return os.MkdirAll(dir, 0750)
}
