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

// Package uvec provides growable ordered sequences of fixed-width
// unsigned integers with SHA-256 integrity checks and binary I/O.
// The sieves use the 64-bit flavor for prime lists and the 16-bit
// flavor for prime-gap encodings.
package uvec

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unsafe"

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"

	"github.com/Zprime137/iZprime/ints"
)

var (
	// ErrIntegrity is returned when a deserialized array fails digest
	// validation.
	ErrIntegrity = errors.New("uvec: digest mismatch")
)

// fingerprint keys; fixed so fingerprints are comparable across runs.
const (
	fpK0 = 0x697a7072696d6531 // "izprime1"
	fpK1 = 0x697a7072696d6532 // "izprime2"
)

// Uint is the set of element widths the container supports.
type Uint interface {
	~uint16 | ~uint32 | ~uint64
}

// Array is a growable sequence of fixed-width unsigned values.
// The ordered flag tracks whether the contents are non-decreasing;
// it survives appends at the tail and is restored by Sort.
type Array[T Uint] struct {
	vals    []T
	ordered bool
	digest  [sha256.Size]byte
}

// Handy aliases for the three widths the sieves use.
type (
	U16 = Array[uint16]
	U32 = Array[uint32]
	U64 = Array[uint64]
)

// New allocates an empty array with the given initial capacity.
func New[T Uint](capacity int) *Array[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Array[T]{
		vals:    make([]T, 0, capacity),
		ordered: true,
	}
}

// NewU64 is New[uint64].
func NewU64(capacity int) *U64 { return New[uint64](capacity) }

// NewU32 is New[uint32].
func NewU32(capacity int) *U32 { return New[uint32](capacity) }

// NewU16 is New[uint16].
func NewU16(capacity int) *U16 { return New[uint16](capacity) }

// Len returns the number of elements.
func (a *Array[T]) Len() int { return len(a.vals) }

// Cap returns the current element capacity.
func (a *Array[T]) Cap() int { return cap(a.vals) }

// At returns the i-th element.
func (a *Array[T]) At(i int) T { return a.vals[i] }

// Last returns the final element; the array must be non-empty.
func (a *Array[T]) Last() T { return a.vals[len(a.vals)-1] }

// Values returns the backing slice. The caller must not grow it.
func (a *Array[T]) Values() []T { return a.vals }

// Ordered reports whether the contents are known to be
// non-decreasing.
func (a *Array[T]) Ordered() bool { return a.ordered }

// MarkUnordered drops the ordered flag; used by producers whose
// output order is not ascending.
func (a *Array[T]) MarkUnordered() { a.ordered = false }

// Push appends v, doubling the capacity when full. The ordered flag
// is kept only when v does not sort below the previous tail.
func (a *Array[T]) Push(v T) {
	if len(a.vals) == cap(a.vals) {
		grown := make([]T, len(a.vals), ints.Max(2*cap(a.vals), 4))
		copy(grown, a.vals)
		a.vals = grown
	}
	if len(a.vals) > 0 && v < a.vals[len(a.vals)-1] {
		a.ordered = false
	}
	a.vals = append(a.vals, v)
}

// Pop removes and returns the last element. The second result is
// false when the array is empty.
func (a *Array[T]) Pop() (T, bool) {
	if len(a.vals) == 0 {
		var zero T
		return zero, false
	}
	v := a.vals[len(a.vals)-1]
	a.vals = a.vals[:len(a.vals)-1]
	return v, true
}

// Sort orders the contents ascending and restores the ordered flag.
func (a *Array[T]) Sort() {
	slices.Sort(a.vals)
	a.ordered = true
}

// ResizeTo reallocates storage with the given capacity, which must be
// at least Len().
func (a *Array[T]) ResizeTo(newCap int) {
	if newCap < len(a.vals) {
		panic("uvec: ResizeTo below element count")
	}
	grown := make([]T, len(a.vals), newCap)
	copy(grown, a.vals)
	a.vals = grown
}

// ResizeToFit trims the capacity down to the element count.
func (a *Array[T]) ResizeToFit() {
	if cap(a.vals) == len(a.vals) {
		return
	}
	a.ResizeTo(len(a.vals))
}

// width returns the element width in bytes.
func (a *Array[T]) width() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// payload encodes the active elements little-endian.
func (a *Array[T]) payload() []byte {
	w := a.width()
	buf := make([]byte, len(a.vals)*w)
	for i, v := range a.vals {
		switch w {
		case 2:
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
		case 4:
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
		default:
			binary.LittleEndian.PutUint64(buf[i*8:], uint64(v))
		}
	}
	return buf
}

// ComputeHash recomputes the SHA-256 digest over the active payload
// and caches it.
func (a *Array[T]) ComputeHash() [sha256.Size]byte {
	a.digest = sha256.Sum256(a.payload())
	return a.digest
}

// VerifyHash reports whether the cached digest matches the current
// contents.
func (a *Array[T]) VerifyHash() bool {
	return a.digest == sha256.Sum256(a.payload())
}

// Fingerprint returns a cheap 64-bit content fingerprint (siphash
// over the payload). It is not a substitute for ComputeHash; the
// benchmark command records it so outputs can be compared without
// paying for SHA-256.
func (a *Array[T]) Fingerprint() uint64 {
	return siphash.Hash(fpK0, fpK1, a.payload())
}

var zeroDigest [sha256.Size]byte

// WriteTo serializes the array as
//
//	u32le count | payload | 32-byte digest
//
// computing the digest first if it has never been computed.
func (a *Array[T]) WriteTo(w io.Writer) (int64, error) {
	if a.digest == zeroDigest {
		a.ComputeHash()
	}
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(a.vals)))
	var written int64
	for _, chunk := range [][]byte{hdr[:], a.payload(), a.digest[:]} {
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("uvec: write: %w", err)
		}
	}
	return written, nil
}

// Read deserializes an array written by WriteTo; the digest is
// recomputed and a mismatch returns ErrIntegrity.
func Read[T Uint](r io.Reader) (*Array[T], error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("uvec: read header: %w", err)
	}
	count := int(binary.LittleEndian.Uint32(hdr[:]))
	a := New[T](count)
	w := a.width()
	buf := make([]byte, count*w)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("uvec: read payload: %w", err)
	}
	for i := 0; i < count; i++ {
		switch w {
		case 2:
			a.Push(T(binary.LittleEndian.Uint16(buf[i*2:])))
		case 4:
			a.Push(T(binary.LittleEndian.Uint32(buf[i*4:])))
		default:
			a.Push(T(binary.LittleEndian.Uint64(buf[i*8:])))
		}
	}
	if _, err := io.ReadFull(r, a.digest[:]); err != nil {
		return nil, fmt.Errorf("uvec: read digest: %w", err)
	}
	if !a.VerifyHash() {
		return nil, ErrIntegrity
	}
	return a, nil
}
