/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package hwerr

import (
	"fmt"
)

// Error is the error type used throughout the servlet core. It carries a
// Code plus an optional chain of parent causes.
type Error interface {
	error

	// Code returns the kind of this error.
	Code() Code
	// Is reports whether err itself is an Error with the same Code. It does
	// not walk err's parents; errors.Is does that and calls Is at each link.
	Is(err error) bool
	// Add appends non-nil causes as parents of this error.
	Add(parent ...error)
	// Unwrap exposes the parent chain to the standard errors package.
	Unwrap() []error
}

type werr struct {
	code Code
	msg  string
	p    []error
}

// New creates a new Error of the given kind with the given message.
func New(code Code, msg string) Error {
	return &werr{code: code, msg: msg}
}

// Newf creates a new Error of the given kind with a formatted message.
func Newf(code Code, format string, args ...interface{}) Error {
	return &werr{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error of the given kind, wrapping err as its cause.
// If err is nil, Wrap returns nil.
func Wrap(code Code, err error) Error {
	if err == nil {
		return nil
	}
	return &werr{code: code, msg: err.Error(), p: []error{err}}
}

func (e *werr) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("[%s] %s", e.code, e.msg)
}

func (e *werr) Code() Code {
	if e == nil {
		return CodeNone
	}
	return e.code
}

func (e *werr) Add(parent ...error) {
	for _, p := range parent {
		if p != nil {
			e.p = append(e.p, p)
		}
	}
}

func (e *werr) Unwrap() []error {
	return e.p
}

func (e *werr) Is(err error) bool {
	if err == nil {
		return false
	}
	if o, ok := err.(*werr); ok {
		return o.code == e.code
	}
	return false
}

// IsCode reports whether err is a hwerr.Error carrying the given code.
func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(Error); ok {
		return e.Code() == code
	}
	return false
}
