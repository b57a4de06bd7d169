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

// Package compr provides transparently compressed prime-stream sinks.
// A sink whose name carries the .zst suffix is wrapped in a zstd
// writer; anything else passes through untouched.
package compr

import (
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compressed reports whether path selects a compressed sink.
func Compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// NewSink wraps w according to the sink name. The returned
// WriteCloser must be closed to flush compressed frames; for plain
// sinks Close is a no-op and does not close w.
func NewSink(w io.Writer, name string) (io.WriteCloser, error) {
	if !Compressed(name) {
		return nopCloser{w}, nil
	}
	return zstd.NewWriter(w)
}

// NewSource wraps r symmetrically to NewSink; used by tests and by
// consumers of previously streamed files.
func NewSource(r io.Reader, name string) (io.ReadCloser, error) {
	if !Compressed(name) {
		return io.NopCloser(r), nil
	}
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return readCloser{zr}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

type readCloser struct{ *zstd.Decoder }

func (rc readCloser) Close() error {
	rc.Decoder.Close()
	return nil
}
