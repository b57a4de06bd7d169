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

package numexpr

import (
	"errors"
	"testing"
)

func TestParseExpr(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1000000", "1000000"},
		{"1,000,000", "1000000"},
		{"1_000_000", "1000000"},
		{"+42", "42"},
		{"10^6", "1000000"},
		{"2^64", "18446744073709551616"},
		{"1e9", "1000000000"},
		{"10E2", "1000"},
		{"1e12 + 35", "1000000000035"},
		{"10^12 + 10^6 + 7", "1000001000007"},
		{" 5 + 5 ", "10"},
	}
	for _, c := range cases {
		got, err := ParseExpr(c.in)
		if err != nil {
			t.Errorf("ParseExpr(%q): %v", c.in, err)
			continue
		}
		if got.String() != c.want {
			t.Errorf("ParseExpr(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseExprErrors(t *testing.T) {
	bad := []string{
		"", " ", "abc", "12a", "1.5", "-5",
		"2^3e4", "1e2^3", "1e", "^4", "1,00", "1,0000",
		"2^9999999", "5 +", "+ ",
	}
	for _, in := range bad {
		if _, err := ParseExpr(in); !errors.Is(err, ErrSyntax) {
			t.Errorf("ParseExpr(%q) err = %v, want ErrSyntax", in, err)
		}
	}
}

func TestParseUint64(t *testing.T) {
	v, err := ParseUint64("1e9")
	if err != nil || v != 1_000_000_000 {
		t.Fatalf("ParseUint64(1e9) = %d, %v", v, err)
	}
	if _, err := ParseUint64("2^64"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("ParseUint64(2^64) err = %v, want ErrSyntax", err)
	}
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		in     string
		lo, hi string
	}{
		{"0,1000", "0", "1000"},
		{"[0, 1e6]", "0", "1000000"},
		{"range[10^9, 10^9 + 5]", "1000000000", "1000000005"},
		{"5..10", "5", "10"},
		{"5:10", "5", "10"},
		{"1,000,000,2,000,000", "1000000", "2000000"},
	}
	for _, c := range cases {
		lo, hi, err := ParseRange(c.in)
		if err != nil {
			t.Errorf("ParseRange(%q): %v", c.in, err)
			continue
		}
		if lo.String() != c.lo || hi.String() != c.hi {
			t.Errorf("ParseRange(%q) = [%s, %s], want [%s, %s]", c.in, lo, hi, c.lo, c.hi)
		}
	}
	if _, _, err := ParseRange("10..5"); !errors.Is(err, ErrSyntax) {
		t.Errorf("descending range err = %v, want ErrSyntax", err)
	}
	if _, _, err := ParseRange("42"); !errors.Is(err, ErrSyntax) {
		t.Errorf("single value err = %v, want ErrSyntax", err)
	}
}

func FuzzParseExpr(f *testing.F) {
	for _, seed := range []string{"1e9", "2^64", "1,000,000", "5 + 5", "abc"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		v, err := ParseExpr(in)
		if err == nil && v.Sign() < 0 {
			t.Errorf("ParseExpr(%q) produced a negative value", in)
		}
	})
}
