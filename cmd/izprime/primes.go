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
	"time"

	"github.com/Zprime137/iZprime/iz"
	"github.com/Zprime137/iZprime/numexpr"
)

func parseN() *big.Int {
	if dashn == "" {
		usagef("missing -n")
	}
	v, err := numexpr.ParseExpr(dashn)
	if err != nil {
		usagef("bad -n: %v", err)
	}
	return v
}

// entry point for 'izprime next_prime'
func cmdNextPrime() {
	base := parseN()
	start := time.Now()
	p, err := iz.NextPrime(base, !dashback)
	if err != nil {
		exitForError(err)
	}
	dir := "next prime after"
	if dashback {
		dir = "previous prime before"
	}
	fmt.Printf("%s %s:\n%s\n", dir, base, p)
	fmt.Printf("elapsed: %v\n", time.Since(start))
}

// entry point for 'izprime is_prime'
func cmdIsPrime() {
	n := parseN()
	rounds := dashrounds
	if rounds <= 0 {
		rounds = iz.MRRounds
	}
	if n.ProbablyPrime(rounds) {
		fmt.Printf("%s is probably prime (%d rounds)\n", n, rounds)
	} else {
		fmt.Printf("%s is composite\n", n)
	}
}

// entry point for 'izprime random_prime'
func cmdRandomPrime() {
	if dashbits < 16 {
		usagef("-bits must be at least 16")
	}
	var (
		p   *big.Int
		err error
	)
	start := time.Now()
	switch dashalgo {
	case "vy":
		p, err = iz.VYRandomPrime(dashbits, cores())
	case "vx", "all", "":
		p, err = iz.VXRandomPrime(dashbits, cores())
	default:
		usagef("unknown search %q (want vx or vy)", dashalgo)
	}
	if err != nil {
		exitForError(err)
	}
	fmt.Printf("random %d-bit probable prime:\n%s\n", dashbits, p)
	fmt.Printf("elapsed: %v\n", time.Since(start))
}
