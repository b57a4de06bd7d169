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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Zprime137/iZprime/compr"
	"github.com/Zprime137/iZprime/internal/platform"
	"github.com/Zprime137/iZprime/iz"
)

// entry point for 'izprime stream_primes'
func cmdStream() {
	in := parseRangeInput()

	var sink io.WriteCloser
	var buffered *bufio.Writer
	switch {
	case dashstream != "":
		if dir := filepath.Dir(dashstream); dir != "." {
			if err := platform.CreateDir(dir); err != nil {
				exitf("creating output directory: %v", err)
			}
		}
		f, err := os.Create(dashstream)
		if err != nil {
			exitf("creating %s: %v", dashstream, err)
		}
		defer f.Close()
		buffered = bufio.NewWriterSize(f, 1<<20)
		sink, err = compr.NewSink(buffered, dashstream)
		if err != nil {
			exitf("opening sink: %v", err)
		}
	case dashprint:
		buffered = bufio.NewWriterSize(os.Stdout, 1<<20)
		sink, _ = compr.NewSink(buffered, "")
	}
	if sink != nil {
		in.Output = sink
	}

	start := time.Now()
	count, err := iz.StreamRange(in)
	if err != nil {
		exitForError(err)
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			exitf("closing sink: %v", err)
		}
		if err := buffered.Flush(); err != nil {
			exitf("flushing sink: %v", err)
		}
		if dashprint && dashstream == "" {
			fmt.Println()
		}
	}
	elapsed := time.Since(start)

	fmt.Fprintf(os.Stderr, "range:    [%s, +%d)\n", in.Start, in.Range)
	fmt.Fprintf(os.Stderr, "primes:   %d\n", count)
	if dashstream != "" {
		fmt.Fprintf(os.Stderr, "output:   %s\n", dashstream)
	}
	fmt.Fprintf(os.Stderr, "elapsed:  %v\n", elapsed)
}

// entry point for 'izprime count_primes'
func cmdCount() {
	in := parseRangeInput()
	workers := cores()

	start := time.Now()
	count, err := iz.CountRange(in, workers)
	if err != nil {
		exitForError(err)
	}
	elapsed := time.Since(start)

	fmt.Printf("range:    [%s, +%d)\n", in.Start, in.Range)
	fmt.Printf("primes:   %d\n", count)
	fmt.Printf("workers:  %d\n", workers)
	fmt.Printf("elapsed:  %v\n", elapsed)
}
