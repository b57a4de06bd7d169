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

// Package numexpr parses the human-friendly integer notations accepted
// on the command line: plain decimals, digit grouping (1,000,000 or
// 1_000_000), powers (2^64), scientific shorthand (1e9), and sums of
// those (1e12 + 35). Range expressions pair two such values.
package numexpr

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("numexpr: invalid expression")

// maxExponent bounds b^e and NeM so a typo cannot allocate gigabytes.
const maxExponent = 1 << 20

// ParseExpr evaluates expr to an arbitrary-precision integer.
func ParseExpr(expr string) (*big.Int, error) {
	out := new(big.Int)
	s := strings.TrimSpace(expr)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrSyntax)
	}
	// a leading '+' is a sign, not an operator
	terms := strings.Split(strings.TrimPrefix(s, "+"), "+")
	for _, term := range terms {
		v, err := parseTerm(term)
		if err != nil {
			return nil, err
		}
		out.Add(out, v)
	}
	return out, nil
}

// ParseUint64 evaluates expr and rejects values outside [0, 2^64).
func ParseUint64(expr string) (uint64, error) {
	v, err := ParseExpr(expr)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %q does not fit in 64 bits", ErrSyntax, expr)
	}
	return v.Uint64(), nil
}

// ParseRange parses an inclusive range expression. Accepted forms:
//
//	L,R    [L, R]    range[L, R]    L..R    L:R
//
// where each bound accepts the same notations as ParseExpr.
// The upper bound must not sort below the lower bound.
func ParseRange(expr string) (lo, hi *big.Int, err error) {
	s := strings.TrimSpace(expr)
	if t := strings.TrimPrefix(s, "range["); t != s && strings.HasSuffix(t, "]") {
		s = strings.TrimSuffix(t, "]")
	} else if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}

	if i := strings.Index(s, ".."); i >= 0 {
		return parseBounds(s[:i], s[i+2:])
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return parseBounds(s[:i], s[i+1:])
	}
	// comma is ambiguous with digit grouping: try each split point
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		if lo, hi, err = parseBounds(s[:i], s[i+1:]); err == nil {
			return lo, hi, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %q is not a range", ErrSyntax, expr)
}

func parseBounds(left, right string) (*big.Int, *big.Int, error) {
	lo, err := ParseExpr(left)
	if err != nil {
		return nil, nil, err
	}
	hi, err := ParseExpr(right)
	if err != nil {
		return nil, nil, err
	}
	if hi.Cmp(lo) < 0 {
		return nil, nil, fmt.Errorf("%w: bounds out of order", ErrSyntax)
	}
	return lo, hi, nil
}

func parseTerm(term string) (*big.Int, error) {
	s := strings.TrimSpace(term)
	if s == "" {
		return nil, fmt.Errorf("%w: empty term", ErrSyntax)
	}
	if i := strings.IndexByte(s, '^'); i >= 0 {
		base, err := parseInteger(s[:i])
		if err != nil {
			return nil, err
		}
		exp, err := parseExponent(s[i+1:])
		if err != nil {
			return nil, err
		}
		return new(big.Int).Exp(base, new(big.Int).SetUint64(exp), nil), nil
	}
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mant, err := parseInteger(s[:i])
		if err != nil {
			return nil, err
		}
		exp, err := parseExponent(s[i+1:])
		if err != nil {
			return nil, err
		}
		pow := new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(exp), nil)
		return pow.Mul(mant, pow), nil
	}
	return parseInteger(s)
}

func parseExponent(s string) (uint64, error) {
	v, err := parseInteger(s)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() || v.Uint64() > maxExponent {
		return 0, fmt.Errorf("%w: exponent %q out of range", ErrSyntax, s)
	}
	return v.Uint64(), nil
}

// parseInteger handles a plain decimal with optional '+' sign,
// underscore separators, or 3-digit comma grouping.
func parseInteger(tok string) (*big.Int, error) {
	s := strings.TrimSpace(tok)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return nil, fmt.Errorf("%w: empty number", ErrSyntax)
	}
	var digits strings.Builder
	if strings.ContainsRune(s, ',') {
		for gi, group := range strings.Split(s, ",") {
			if gi == 0 {
				if len(group) < 1 || len(group) > 3 {
					return nil, fmt.Errorf("%w: bad digit grouping in %q", ErrSyntax, tok)
				}
			} else if len(group) != 3 {
				return nil, fmt.Errorf("%w: bad digit grouping in %q", ErrSyntax, tok)
			}
			digits.WriteString(group)
		}
		s = digits.String()
		digits.Reset()
	}
	for _, c := range s {
		if c == '_' {
			continue
		}
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: %q is not a number", ErrSyntax, tok)
		}
		digits.WriteRune(c)
	}
	if digits.Len() == 0 {
		return nil, fmt.Errorf("%w: %q is not a number", ErrSyntax, tok)
	}
	v, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a number", ErrSyntax, tok)
	}
	return v, nil
}
