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

// Command izprime drives the iZ sieve engine: stream or count primes
// over a range, walk to the next prime, test candidates, generate
// random primes, and benchmark the sieve family.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/Zprime137/iZprime/classic"
	"github.com/Zprime137/iZprime/iz"
	"github.com/Zprime137/iZprime/numexpr"
)

var one = big.NewInt(1)

var (
	dashrange  string
	dashn      string
	dashmr     int
	dashcores  int
	dashrounds int
	dashprint  bool
	dashstream string
	dashlimit  string
	dashrepeat int
	dashalgo   string
	dashsave   string
	dashbits   int
	dashback   bool
)

func init() {
	flag.StringVar(&dashrange, "range", "", "inclusive range \"[L, R]\" (accepts 1e9, 10^12, 1,000,000, a + b)")
	flag.StringVar(&dashn, "n", "", "single numeric value (same notations as -range)")
	flag.IntVar(&dashmr, "mr-rounds", 0, "Miller-Rabin rounds (0 uses the default)")
	flag.IntVar(&dashcores, "cores-number", 0, "worker count (0 uses every online CPU)")
	flag.IntVar(&dashrounds, "rounds", iz.MRRounds, "rounds for is_prime")
	flag.BoolVar(&dashprint, "print", false, "print streamed primes / verbose test output")
	flag.StringVar(&dashstream, "stream-to", "", "stream primes to this file (.zst compresses)")
	flag.StringVar(&dashlimit, "limit", "", "sieve limit for benchmark/test")
	flag.IntVar(&dashrepeat, "repeat", 1, "benchmark repetitions per algorithm")
	flag.StringVar(&dashalgo, "algo", "all", "sieve algorithm name, or all")
	flag.StringVar(&dashsave, "save-results", "", "write benchmark results to this YAML file")
	flag.IntVar(&dashbits, "bits", 1024, "bit size for random_prime")
	flag.BoolVar(&dashback, "backward", false, "walk next_prime backward")
}

const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f, args...)
	if len(f) == 0 || f[len(f)-1] != '\n' {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(exitRuntime)
}

func usagef(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f, args...)
	if len(f) == 0 || f[len(f)-1] != '\n' {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(exitUsage)
}

func printHelp(w *os.File) {
	fmt.Fprintf(w, "usage: %s <command> [flags]\n", os.Args[0])
	fmt.Fprintln(w, `
commands:
    stream_primes (sieve)   stream primes in -range, optionally to -stream-to
    count_primes  (count)   count primes in -range across -cores-number workers
    next_prime              nearest prime beyond -n (-backward reverses)
    is_prime                probabilistic primality of -n with -rounds
    random_prime            random prime of -bits bits via -algo vx|vy
    test                    cross-check every sieve model
    benchmark               time sieve models over -limit, -repeat times
    doctor                  report platform capabilities
    help                    this text

flag usage:`)
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("izprime: ")
	flag.Usage = func() { printHelp(os.Stderr) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		printHelp(os.Stderr)
		os.Exit(exitRuntime)
	}
	applyConfig()

	switch args[0] {
	case "stream_primes", "sieve":
		cmdStream()
	case "count_primes", "count":
		cmdCount()
	case "next_prime":
		cmdNextPrime()
	case "is_prime":
		cmdIsPrime()
	case "random_prime":
		cmdRandomPrime()
	case "test":
		os.Exit(cmdSelfTest())
	case "benchmark":
		cmdBenchmark()
	case "doctor":
		cmdDoctor()
	case "help":
		printHelp(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printHelp(os.Stderr)
		os.Exit(exitRuntime)
	}
}

// parseRangeInput turns -range into the driver input.
func parseRangeInput() *iz.RangeInput {
	if dashrange == "" {
		usagef("missing -range")
	}
	lo, hi, err := numexpr.ParseRange(dashrange)
	if err != nil {
		usagef("bad -range: %v", err)
	}
	width := hi.Sub(hi, lo)
	width.Add(width, one)
	if !width.IsUint64() {
		usagef("-range spans more than 64 bits")
	}
	mr := dashmr
	if mr <= 0 {
		mr = iz.MRRounds
	}
	return &iz.RangeInput{
		Start:    lo.String(),
		Range:    width.Uint64(),
		MRRounds: mr,
		Logf:     log.Printf,
	}
}

// exitForError maps library failures onto the exit-code contract.
func exitForError(err error) {
	if errors.Is(err, iz.ErrDomain) || errors.Is(err, classic.ErrDomain) || errors.Is(err, numexpr.ErrSyntax) {
		usagef("%v", err)
	}
	exitf("%v", err)
}
