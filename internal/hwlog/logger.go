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

// Package hwlog is a trimmed, fluent logging facade over logrus used by
// every component of the servlet core that can hit a non-fatal error
// condition (parse failures, forced closes, worker panics).
package hwlog

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// FuncLog returns the Logger an owner should use; nil means "use the
// package default".
type FuncLog func() Logger

// Logger is the minimal logging surface every component depends on.
type Logger interface {
	// Entry starts a fluent log record at the given level.
	Entry(level logrus.Level, msg string) *Entry
	// SetLevel changes the minimum level the backend emits.
	SetLevel(level logrus.Level)
}

type lgr struct {
	m  sync.RWMutex
	lr *logrus.Logger
}

func defaultFormatter() *logrus.TextFormatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   false,
		QuoteEmptyFields: true,
	}
}

// New creates a Logger backed by a fresh logrus.Logger using the same
// TextFormatter defaults as the teacher's logger package.
func New(level logrus.Level) Logger {
	l := logrus.New()
	l.SetFormatter(defaultFormatter())
	l.SetLevel(level)
	return &lgr{lr: l}
}

func (o *lgr) SetLevel(level logrus.Level) {
	o.m.Lock()
	defer o.m.Unlock()
	o.lr.SetLevel(level)
}

func (o *lgr) Entry(level logrus.Level, msg string) *Entry {
	o.m.RLock()
	defer o.m.RUnlock()
	return &Entry{lr: o.lr, level: level, message: msg, fields: logrus.Fields{}}
}

var defLogger atomic.Value

func init() {
	defLogger.Store(New(logrus.InfoLevel))
}

// GetDefault returns the process-wide default Logger.
func GetDefault() Logger {
	return defLogger.Load().(Logger)
}

// SetDefault replaces the process-wide default Logger.
func SetDefault(l Logger) {
	if l != nil {
		defLogger.Store(l)
	}
}

// Resolve returns f() if f and its result are non-nil, else the default.
func Resolve(f FuncLog) Logger {
	if f == nil {
		return GetDefault()
	}
	if l := f(); l != nil {
		return l
	}
	return GetDefault()
}
