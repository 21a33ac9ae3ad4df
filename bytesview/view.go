/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package bytesview provides zero-copy, panic-free views over
// externally-owned byte slices. Every parsed HTTP token (method, URI,
// header name/value) is a View into a Request's arena.
package bytesview

import (
	"strconv"
)

// View is a read-only window over someone else's bytes. The zero value is
// an empty view.
type View struct {
	b []byte
}

// New wraps b as a View. No copy is made.
func New(b []byte) View {
	return View{b: b}
}

// Bytes returns the underlying bytes. Callers must not mutate them.
func (v View) Bytes() []byte {
	return v.b
}

// String copies the view out as a string.
func (v View) String() string {
	return string(v.b)
}

// Len returns the number of bytes in the view.
func (v View) Len() int {
	return len(v.b)
}

// Empty reports whether the view has zero length.
func (v View) Empty() bool {
	return len(v.b) == 0
}

// Equal reports whether v and o contain the same bytes.
func (v View) Equal(o View) bool {
	return string(v.b) == string(o.b)
}

// EqualString reports whether v contains exactly s.
func (v View) EqualString(s string) bool {
	return string(v.b) == s
}

// EqualFold reports whether v equals s under ASCII case-insensitive
// comparison. Used for HTTP header name matching (spec.md §9 Open
// Question: header names are matched case-insensitively here, a
// deliberate tightening beyond the C original's case-sensitive compare).
func (v View) EqualFold(s string) bool {
	if len(v.b) != len(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if asciiLower(v.b[i]) != asciiLower(s[i]) {
			return false
		}
	}
	return true
}

func asciiLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// ReadLine scans input for the first LF byte. It returns the bytes before
// the LF (trailing CR stripped) as a View, the remainder of input after
// the LF, and true. If no LF is found it returns the zero View, input
// unchanged, and false.
func ReadLine(input []byte) (line View, rest []byte, ok bool) {
	for i, c := range input {
		if c == '\n' {
			l := input[:i]
			if n := len(l); n > 0 && l[n-1] == '\r' {
				l = l[:n-1]
			}
			return View{b: l}, input[i+1:], true
		}
	}
	return View{}, input, false
}

// Trim strips leading and trailing ASCII whitespace (\r \n space tab).
func (v View) Trim() View {
	return v.RTrim().LTrim()
}

// LTrim strips leading ASCII whitespace.
func (v View) LTrim() View {
	b := v.b
	for len(b) > 0 && isSpace(b[0]) {
		b = b[1:]
	}
	return View{b: b}
}

// RTrim strips trailing ASCII whitespace.
func (v View) RTrim() View {
	b := v.b
	for len(b) > 0 && isSpace(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	return View{b: b}
}

func isSpace(c byte) bool {
	return c == '\r' || c == '\n' || c == ' ' || c == '\t'
}

// Suffix returns the view after the last occurrence of delim, delim
// itself not included. If delim does not occur, it returns v unchanged.
func (v View) Suffix(delim byte) View {
	for i := len(v.b) - 1; i >= 0; i-- {
		if v.b[i] == delim {
			return View{b: v.b[i+1:]}
		}
	}
	return v
}

// Split splits v on each occurrence of delim into at most max views; the
// last view absorbs any remainder (including further delim bytes).
func Split(v View, delim byte, max int) []View {
	if max <= 0 {
		return nil
	}

	out := make([]View, 0, max)
	b := v.b
	for len(out) < max-1 {
		i := indexByte(b, delim)
		if i < 0 {
			break
		}
		out = append(out, View{b: b[:i]})
		b = b[i+1:]
	}
	out = append(out, View{b: b})
	return out
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// ToUint parses the longest valid leading run of ASCII digits as a
// non-negative integer, returning the value and the unparsed remainder.
// If v does not start with a digit, ok is false.
func (v View) ToUint() (n uint64, rest View, ok bool) {
	b := v.b
	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, v, false
	}
	val, err := strconv.ParseUint(string(b[:i]), 10, 64)
	if err != nil {
		return 0, v, false
	}
	return val, View{b: b[i:]}, true
}

// ToInt parses an optionally-signed leading run of ASCII digits, returning
// the value and the unparsed remainder.
func (v View) ToInt() (n int64, rest View, ok bool) {
	b := v.b
	neg := false
	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		neg = b[i] == '-'
		i++
	}
	start := i
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == start {
		return 0, v, false
	}
	val, err := strconv.ParseInt(string(b[start:i]), 10, 64)
	if err != nil {
		return 0, v, false
	}
	if neg {
		val = -val
	}
	return val, View{b: b[i:]}, true
}

// UintToChars writes the decimal representation of n into buf and returns
// the number of bytes written, or -1 if buf is too small.
func UintToChars(buf []byte, n uint64) int {
	s := strconv.FormatUint(n, 10)
	if len(s) > len(buf) {
		return -1
	}
	return copy(buf, s)
}
