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

package uvec

import (
	"bytes"
	"errors"
	"testing"
)

func TestPushPop(t *testing.T) {
	a := NewU64(1)
	for i := uint64(0); i < 100; i++ {
		a.Push(i * 3)
	}
	if a.Len() != 100 {
		t.Fatalf("Len = %d, want 100", a.Len())
	}
	if !a.Ordered() {
		t.Fatal("ascending pushes should keep the ordered flag")
	}
	v, ok := a.Pop()
	if !ok || v != 297 {
		t.Fatalf("Pop = %d, %v", v, ok)
	}
	if a.Len() != 99 {
		t.Fatalf("Len after Pop = %d", a.Len())
	}
	var empty U64
	if _, ok := empty.Pop(); ok {
		t.Fatal("Pop on empty array reported ok")
	}
}

func TestOrderedFlag(t *testing.T) {
	a := NewU32(0)
	a.Push(5)
	a.Push(5) // equal keeps ordering
	a.Push(9)
	if !a.Ordered() {
		t.Fatal("non-decreasing pushes dropped the ordered flag")
	}
	a.Push(2)
	if a.Ordered() {
		t.Fatal("descending push kept the ordered flag")
	}
	a.Sort()
	if !a.Ordered() {
		t.Fatal("Sort did not restore the ordered flag")
	}
	want := []uint32{2, 5, 5, 9}
	for i, w := range want {
		if a.At(i) != w {
			t.Fatalf("At(%d) = %d, want %d", i, a.At(i), w)
		}
	}
}

func TestResize(t *testing.T) {
	a := NewU16(64)
	for i := 0; i < 10; i++ {
		a.Push(uint16(i))
	}
	a.ResizeToFit()
	if a.Cap() != 10 || a.Len() != 10 {
		t.Fatalf("after ResizeToFit cap=%d len=%d", a.Cap(), a.Len())
	}
	a.ResizeTo(32)
	if a.Cap() != 32 || a.Len() != 10 {
		t.Fatalf("after ResizeTo cap=%d len=%d", a.Cap(), a.Len())
	}
	defer func() {
		if recover() == nil {
			t.Fatal("ResizeTo below count did not panic")
		}
	}()
	a.ResizeTo(3)
}

func TestHashAndFingerprint(t *testing.T) {
	a := NewU64(0)
	b := NewU64(0)
	for i := uint64(0); i < 50; i++ {
		a.Push(i)
		b.Push(i)
	}
	if a.ComputeHash() != b.ComputeHash() {
		t.Fatal("identical contents, different digests")
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("identical contents, different fingerprints")
	}
	b.Push(1000)
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("different contents, same fingerprint")
	}
	if !a.VerifyHash() {
		t.Fatal("VerifyHash failed on unchanged array")
	}
	a.Push(7)
	if a.VerifyHash() {
		t.Fatal("VerifyHash passed after mutation")
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("u16", func(t *testing.T) { roundTrip[uint16](t, []uint16{1, 9, 65535, 0}) })
	t.Run("u32", func(t *testing.T) { roundTrip[uint32](t, []uint32{7, 1 << 30, 42}) })
	t.Run("u64", func(t *testing.T) { roundTrip[uint64](t, []uint64{2, 3, 1 << 62}) })
}

func roundTrip[T Uint](t *testing.T, vals []T) {
	a := New[T](0)
	for _, v := range vals {
		a.Push(v)
	}
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Read[T](bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != a.Len() {
		t.Fatalf("Len = %d, want %d", got.Len(), a.Len())
	}
	for i := range vals {
		if got.At(i) != a.At(i) {
			t.Fatalf("At(%d) = %v, want %v", i, got.At(i), a.At(i))
		}
	}
}

func TestReadRejectsCorruption(t *testing.T) {
	a := NewU64(0)
	for i := uint64(0); i < 16; i++ {
		a.Push(i * i)
	}
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	raw[4+8*3] ^= 1 // flip a payload bit
	if _, err := Read[uint64](bytes.NewReader(raw)); !errors.Is(err, ErrIntegrity) {
		t.Fatalf("Read of corrupted payload err = %v, want ErrIntegrity", err)
	}
}
