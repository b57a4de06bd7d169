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

package classic

import (
	"errors"
	"testing"

	"github.com/Zprime137/iZprime/uvec"
)

var models = []struct {
	name string
	fn   func(uint64) (*uvec.U64, error)
}{
	{"SoE", SoE},
	{"SSoE", SSoE},
	{"SoEu", SoEu},
	{"SoS", SoS},
	{"SoA", SoA},
}

func TestKnownCounts(t *testing.T) {
	cases := []struct {
		n    uint64
		pi   uint64
		last uint64
	}{
		{100, 25, 97},
		{1000, 168, 997},
		{100_000, 9592, 99991},
		{1_000_000, 78498, 999983},
	}
	for _, m := range models {
		for _, c := range cases {
			primes, err := m.fn(c.n)
			if err != nil {
				t.Fatalf("%s(%d): %v", m.name, c.n, err)
			}
			if uint64(primes.Len()) != c.pi {
				t.Errorf("%s(%d) found %d primes, want %d", m.name, c.n, primes.Len(), c.pi)
			}
			if primes.Last() != c.last {
				t.Errorf("%s(%d) last = %d, want %d", m.name, c.n, primes.Last(), c.last)
			}
			if !primes.Ordered() {
				t.Errorf("%s(%d) output not ordered", m.name, c.n)
			}
		}
	}
}

func TestModelsAgree(t *testing.T) {
	ref, err := SoE(50_000)
	if err != nil {
		t.Fatal(err)
	}
	digest := ref.ComputeHash()
	for _, m := range models[1:] {
		got, err := m.fn(50_000)
		if err != nil {
			t.Fatal(err)
		}
		if got.ComputeHash() != digest {
			t.Errorf("%s digest differs from SoE", m.name)
		}
	}
}

func TestDomain(t *testing.T) {
	for _, m := range models {
		if _, err := m.fn(10); !errors.Is(err, ErrDomain) {
			t.Errorf("%s(10) err = %v, want ErrDomain", m.name, err)
		}
	}
}

func BenchmarkSoE(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := SoE(1_000_000); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSSoE(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := SSoE(1_000_000); err != nil {
			b.Fatal(err)
		}
	}
}
