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
	"math/big"
	"os"

	"github.com/Zprime137/iZprime/classic"
	"github.com/Zprime137/iZprime/iz"
	"github.com/Zprime137/iZprime/numexpr"
	"github.com/Zprime137/iZprime/uvec"
)

// sieveModel pairs a sieve entry point with its display name.
type sieveModel struct {
	name string
	fn   func(uint64) (*uvec.U64, error)
}

var sieveModels = []sieveModel{
	{"SoE", classic.SoE},
	{"SSoE", classic.SSoE},
	{"SoEu", classic.SoEu},
	{"SoS", classic.SoS},
	{"SoA", classic.SoA},
	{"SiZ", iz.SiZ},
	{"SiZm", iz.SiZm},
	{"SiZm_vy", iz.SiZmVY},
}

func findModels(name string) []sieveModel {
	if name == "" || name == "all" {
		return sieveModels
	}
	for _, m := range sieveModels {
		if m.name == name {
			return []sieveModel{m}
		}
	}
	return nil
}

// entry point for 'izprime test'; returns the process exit code.
func cmdSelfTest() int {
	limit := uint64(1_000_000)
	if dashlimit != "" {
		v, err := numexpr.ParseUint64(dashlimit)
		if err != nil {
			usagef("bad -limit: %v", err)
		}
		limit = v
	}

	failed := 0
	check := func(name string, ok bool, detail string) {
		status := "ok"
		if !ok {
			status = "FAIL"
			failed++
		}
		if !ok || dashprint {
			fmt.Printf("%-28s %-4s %s\n", name, status, detail)
		}
	}

	// consensus: every model produces the same digest
	ref, err := iz.SiZ(limit)
	if err != nil {
		exitForError(err)
	}
	refDigest := ref.ComputeHash()
	for _, m := range sieveModels {
		got, err := m.fn(limit)
		if err != nil {
			check("consensus/"+m.name, false, err.Error())
			continue
		}
		if !got.Ordered() {
			got.Sort()
		}
		check("consensus/"+m.name, got.ComputeHash() == refDigest,
			fmt.Sprintf("%d primes up to %d", got.Len(), limit))
	}

	// range drivers against the reference sieve
	count, err := iz.CountRange(&iz.RangeInput{Start: "0", Range: limit + 1}, cores())
	check("count/workers", err == nil && count == uint64(ref.Len()),
		fmt.Sprintf("counted %d, sieve says %d", count, ref.Len()))
	streamed, err := iz.StreamRange(&iz.RangeInput{Start: "0", Range: limit + 1})
	check("stream/count", err == nil && streamed == uint64(ref.Len()),
		fmt.Sprintf("streamed %d, sieve says %d", streamed, ref.Len()))

	// next-prime walker against the tail of the reference list
	last := ref.At(ref.Len() - 1)
	secondLast := ref.At(ref.Len() - 2)
	np, err := iz.NextPrime(new(big.Int).SetUint64(secondLast), true)
	check("next_prime/forward", err == nil && np.IsUint64() && np.Uint64() == last,
		fmt.Sprintf("after %d got %s, want %d", secondLast, np, last))
	pp, err := iz.NextPrime(new(big.Int).SetUint64(last), false)
	check("next_prime/backward", err == nil && pp.IsUint64() && pp.Uint64() == secondLast,
		fmt.Sprintf("before %d got %s, want %d", last, pp, secondLast))

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d checks failed\n", failed)
		return exitRuntime
	}
	fmt.Println("all checks passed")
	return exitOK
}
