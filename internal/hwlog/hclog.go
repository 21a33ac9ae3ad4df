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

package hwlog

import (
	"io"
	"log"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/sirupsen/logrus"
)

// Hclog adapts a Logger onto the hclog.Logger interface, for embedders
// (e.g. a Nomad/Consul-style plugin host) that hand a hclog.Logger to
// whatever they load rather than accepting an arbitrary logging facade.
type Hclog struct {
	m    sync.RWMutex
	l    Logger
	name string
	args []interface{}
}

// NewHclog wraps l as an hclog.Logger.
func NewHclog(l Logger) hclog.Logger {
	return &Hclog{l: l}
}

func hclogToLogrus(level hclog.Level) logrus.Level {
	switch level {
	case hclog.Trace, hclog.Debug:
		return logrus.DebugLevel
	case hclog.Info:
		return logrus.InfoLevel
	case hclog.Warn:
		return logrus.WarnLevel
	case hclog.Error:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func logrusToHclog(level logrus.Level) hclog.Level {
	switch {
	case level >= logrus.DebugLevel:
		return hclog.Debug
	case level >= logrus.InfoLevel:
		return hclog.Info
	case level >= logrus.WarnLevel:
		return hclog.Warn
	default:
		return hclog.Error
	}
}

func (h *Hclog) entry(level hclog.Level, msg string, args []interface{}) *Entry {
	h.m.RLock()
	name, implied := h.name, append([]interface{}{}, h.args...)
	h.m.RUnlock()

	e := h.l.Entry(hclogToLogrus(level), msg)
	if name != "" {
		e.Field("logger", name)
	}
	for i := 0; i+1 < len(implied); i += 2 {
		e.Field(fieldName(implied[i]), implied[i+1])
	}
	for i := 0; i+1 < len(args); i += 2 {
		e.Field(fieldName(args[i]), args[i+1])
	}
	return e
}

func fieldName(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "arg"
}

func (h *Hclog) Log(level hclog.Level, msg string, args ...interface{}) {
	if level == hclog.Off || level == hclog.NoLevel {
		return
	}
	h.entry(level, msg, args).Log()
}

func (h *Hclog) Trace(msg string, args ...interface{}) { h.entry(hclog.Trace, msg, args).Log() }
func (h *Hclog) Debug(msg string, args ...interface{}) { h.entry(hclog.Debug, msg, args).Log() }
func (h *Hclog) Info(msg string, args ...interface{})  { h.entry(hclog.Info, msg, args).Log() }
func (h *Hclog) Warn(msg string, args ...interface{})  { h.entry(hclog.Warn, msg, args).Log() }
func (h *Hclog) Error(msg string, args ...interface{}) { h.entry(hclog.Error, msg, args).Log() }

func (h *Hclog) IsTrace() bool { return true }
func (h *Hclog) IsDebug() bool { return true }
func (h *Hclog) IsInfo() bool  { return true }
func (h *Hclog) IsWarn() bool  { return true }
func (h *Hclog) IsError() bool { return true }

func (h *Hclog) ImpliedArgs() []interface{} {
	h.m.RLock()
	defer h.m.RUnlock()
	return append([]interface{}{}, h.args...)
}

func (h *Hclog) With(args ...interface{}) hclog.Logger {
	h.m.Lock()
	defer h.m.Unlock()
	return &Hclog{l: h.l, name: h.name, args: append(append([]interface{}{}, h.args...), args...)}
}

func (h *Hclog) Name() string {
	h.m.RLock()
	defer h.m.RUnlock()
	return h.name
}

func (h *Hclog) Named(name string) hclog.Logger {
	h.m.RLock()
	args := append([]interface{}{}, h.args...)
	h.m.RUnlock()
	return &Hclog{l: h.l, name: name, args: args}
}

func (h *Hclog) ResetNamed(name string) hclog.Logger {
	return h.Named(name)
}

func (h *Hclog) SetLevel(level hclog.Level) {
	h.l.SetLevel(hclogToLogrus(level))
}

func (h *Hclog) GetLevel() hclog.Level {
	return logrusToHclog(logrus.InfoLevel)
}

func (h *Hclog) StandardLogger(opts *hclog.StandardLoggerOptions) *log.Logger {
	return log.New(h.StandardWriter(opts), "", 0)
}

func (h *Hclog) StandardWriter(_ *hclog.StandardLoggerOptions) io.Writer {
	return &hclogWriter{h: h}
}

type hclogWriter struct{ h *Hclog }

func (w *hclogWriter) Write(p []byte) (int, error) {
	w.h.Info(string(p))
	return len(p), nil
}
