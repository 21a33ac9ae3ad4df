/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
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

package hwlog

import (
	"github.com/sirupsen/logrus"
)

// Entry is a fluent, single-use log record builder.
type Entry struct {
	lr      *logrus.Logger
	level   logrus.Level
	message string
	fields  logrus.Fields
	errs    []error
}

// Field adds a single key/value pair to the entry.
func (e *Entry) Field(key string, val interface{}) *Entry {
	e.fields[key] = val
	return e
}

// ErrorAdd appends err to the entry. If force is false, nil errors are
// skipped silently; the entry's effective level is raised to Error if any
// non-nil error is present.
func (e *Entry) ErrorAdd(force bool, err error) *Entry {
	if err == nil && !force {
		return e
	}
	if err != nil {
		e.errs = append(e.errs, err)
		if e.level > logrus.ErrorLevel {
			e.level = logrus.ErrorLevel
		}
	}
	return e
}

// Log emits the entry unconditionally.
func (e *Entry) Log() {
	if e == nil || e.lr == nil {
		return
	}

	f := e.lr.WithFields(e.fields)
	if len(e.errs) == 1 {
		f = f.WithError(e.errs[0])
	} else if len(e.errs) > 1 {
		f = f.WithField(FieldErrors, e.errs)
	}

	f.Log(e.level, e.message)
}

// Check emits the entry only if it actually carries a non-nil error, or if
// fallback is below NilLevel (meaning "always log"). This mirrors the
// teacher's `.Check(liblog.NilLevel)` short-circuit used after ErrorAdd.
func (e *Entry) Check(fallback logrus.Level) {
	if e == nil {
		return
	}
	if len(e.errs) == 0 && fallback == NilLevel {
		return
	}
	e.Log()
}

// NilLevel is a sentinel meaning "do not log unless an error was attached".
const NilLevel logrus.Level = logrus.Level(^uint32(0))

// FieldErrors is the field key used when more than one error is attached.
const FieldErrors = "errors"
