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

// Package bitmap provides the packed bit-array primitive backing every
// sieve in this module. The layout is LSB-first within each byte, and
// the hot path is the stepped clear used to mark composite runs.
package bitmap

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/Zprime137/iZprime/internal/simd"
	"github.com/Zprime137/iZprime/ints"
)

var (
	// ErrEmpty is returned when a zero-length bitmap is requested.
	ErrEmpty = errors.New("bitmap: size must be positive")
	// ErrIntegrity is returned when a deserialized bitmap fails
	// digest validation.
	ErrIntegrity = errors.New("bitmap: digest mismatch")
)

// Bitmap is a packed bit array of a fixed size with a cached SHA-256
// digest over its backing bytes. The digest is maintained explicitly
// via ComputeHash and checked on deserialization.
type Bitmap struct {
	size   uint64
	data   []byte
	digest [sha256.Size]byte
}

// New allocates a bitmap of n bits, initialized to all ones when set
// is true and all zeros otherwise.
func New(n uint64, set bool) (*Bitmap, error) {
	if n == 0 {
		return nil, ErrEmpty
	}
	b := &Bitmap{
		size: n,
		data: make([]byte, (n+7)/8),
	}
	if set {
		b.SetAll()
	}
	return b, nil
}

// Len returns the number of addressable bits.
func (b *Bitmap) Len() uint64 { return b.size }

// Get returns 1 if bit idx is set and 0 otherwise.
// idx must be < Len(); callers own the bounds.
func (b *Bitmap) Get(idx uint64) int {
	if ints.TestBit(b.data, idx) {
		return 1
	}
	return 0
}

// IsSet is Get as a boolean.
func (b *Bitmap) IsSet(idx uint64) bool {
	return ints.TestBit(b.data, idx)
}

// Set sets bit idx to 1.
func (b *Bitmap) Set(idx uint64) {
	ints.SetBit(b.data, idx)
}

// Clear sets bit idx to 0.
func (b *Bitmap) Clear(idx uint64) {
	ints.ClearBit(b.data, idx)
}

// Flip inverts bit idx.
func (b *Bitmap) Flip(idx uint64) {
	ints.FlipBit(b.data, idx)
}

// SetAll sets every bit to 1.
func (b *Bitmap) SetAll() {
	for i := range b.data {
		b.data[i] = 0xff
	}
}

// ClearAll sets every bit to 0.
func (b *Bitmap) ClearAll() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// ClearSteps clears bits start, start+step, start+2*step, ... while
// the position is <= min(limit, Len()-1). step must be >= 1.
func (b *Bitmap) ClearSteps(step, start, limit uint64) {
	if step == 0 {
		panic("bitmap: zero step")
	}
	if limit > b.size-1 {
		limit = b.size - 1
	}
	if start > limit {
		return
	}
	simd.ClearSteps(b.data, step, start, limit)
}

// ClearStepsSIMD has identical semantics to ClearSteps but uses the
// wide kernel when the platform supports it.
func (b *Bitmap) ClearStepsSIMD(step, start, limit uint64) {
	if step == 0 {
		panic("bitmap: zero step")
	}
	if limit > b.size-1 {
		limit = b.size - 1
	}
	if start > limit {
		return
	}
	simd.ClearStepsAuto(b.data, step, start, limit)
}

// CopyFrom overwrites the bit contents with those of src.
// Both bitmaps must have the same size.
func (b *Bitmap) CopyFrom(src *Bitmap) {
	if b.size != src.size {
		panic("bitmap: CopyFrom size mismatch")
	}
	copy(b.data, src.data)
}

// Clone deep-copies the bitmap, including the cached digest.
func (b *Bitmap) Clone() *Bitmap {
	c := &Bitmap{
		size:   b.size,
		data:   make([]byte, len(b.data)),
		digest: b.digest,
	}
	copy(c.data, b.data)
	return c
}

// CountRange returns the number of set bits with index in [lo, hi].
// hi is capped to Len()-1; an empty interval counts zero.
func (b *Bitmap) CountRange(lo, hi uint64) uint64 {
	if hi > b.size-1 {
		hi = b.size - 1
	}
	if lo > hi {
		return 0
	}
	first, last := lo>>3, hi>>3
	loMask := byte(0xff << (lo & 7))
	hiMask := byte(0xff >> (7 - hi&7))
	if first == last {
		return uint64(bits.OnesCount8(b.data[first] & loMask & hiMask))
	}
	n := uint64(bits.OnesCount8(b.data[first] & loMask))
	for i := first + 1; i < last; i++ {
		n += uint64(bits.OnesCount8(b.data[i]))
	}
	n += uint64(bits.OnesCount8(b.data[last] & hiMask))
	return n
}

// ComputeHash recomputes the SHA-256 digest over the backing bytes
// and caches it.
func (b *Bitmap) ComputeHash() [sha256.Size]byte {
	b.digest = sha256.Sum256(b.data)
	return b.digest
}

// ValidateHash reports whether the cached digest matches the current
// contents.
func (b *Bitmap) ValidateHash() bool {
	return b.digest == sha256.Sum256(b.data)
}

// Equal reports whether two bitmaps have the same size and bits.
// Unused padding bits in the last byte are compared too, which is
// fine for bitmaps produced by this package (padding starts zeroed
// or all-ones and is mutated in lockstep).
func (b *Bitmap) Equal(o *Bitmap) bool {
	if b.size != o.size {
		return false
	}
	for i := range b.data {
		if b.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

var zeroDigest [sha256.Size]byte

// WriteTo serializes the bitmap as
//
//	u64le size_bits | payload bytes | 32-byte digest
//
// computing the digest first if it has never been computed.
func (b *Bitmap) WriteTo(w io.Writer) (int64, error) {
	if b.digest == zeroDigest {
		b.ComputeHash()
	}
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], b.size)
	var written int64
	for _, chunk := range [][]byte{hdr[:], b.data, b.digest[:]} {
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("bitmap: write: %w", err)
		}
	}
	return written, nil
}

// Read deserializes a bitmap written by WriteTo. The digest is
// recomputed over the payload; a mismatch returns ErrIntegrity and no
// bitmap.
func Read(r io.Reader) (*Bitmap, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("bitmap: read header: %w", err)
	}
	size := binary.LittleEndian.Uint64(hdr[:])
	b, err := New(size, false)
	if err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, b.data); err != nil {
		return nil, fmt.Errorf("bitmap: read payload: %w", err)
	}
	if _, err := io.ReadFull(r, b.digest[:]); err != nil {
		return nil, fmt.Errorf("bitmap: read digest: %w", err)
	}
	if !b.ValidateHash() {
		return nil, ErrIntegrity
	}
	return b, nil
}
