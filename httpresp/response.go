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

// Package httpresp implements the HTTP/1.1 response builder: incremental
// status/header/body serialization with an ordering invariant (status →
// headers → CRLF → body) and an error latch that forces connection close
// once tripped.
package httpresp

import (
	"fmt"

	"github.com/nabbar/highway/arena"
	"github.com/nabbar/highway/internal/hwerr"
	"github.com/nabbar/highway/internal/statuscode"
)

// MaxHeaderSize bounds the serialized status+headers+CRLF section.
const MaxHeaderSize = 8 * 1024

// MaxHeadersCount bounds the number of headers a Response may write.
const MaxHeadersCount = 32

// ServerHeader, when non-empty, is appended as a `Server: <value>` line
// by FlushHeaders unless the handler already wrote one.
var ServerHeader = ""

// Conn is the minimal surface WriteBody/Flush need to send bytes.
type Conn interface {
	Write(p []byte) (n int, err error)
}

// Response is a per-worker, reusable HTTP/1.1 response serializer backed
// by a fixed scratch arena.
type Response struct {
	arena *arena.Arena

	statusCode int
	names      [MaxHeadersCount]string
	headerN    int

	errorLatch    bool
	headersSent   bool
	statusWritten bool
	contentLenSet bool
	connectionSet bool

	contentLength  int64 // -1 if unset
	remainingBytes int64

	close bool
}

// New creates a Response backed by a.
func New(a *arena.Arena) *Response {
	return &Response{arena: a, statusCode: 0, contentLength: -1}
}

// Reset prepares the Response for a new connection.
func (r *Response) Reset() {
	r.arena.Reset()
	r.statusCode = 0
	r.headerN = 0
	r.errorLatch = false
	r.headersSent = false
	r.statusWritten = false
	r.contentLenSet = false
	r.connectionSet = false
	r.contentLength = -1
	r.remainingBytes = 0
	r.close = false
}

// HasError reports whether the error latch has tripped.
func (r *Response) HasError() bool {
	return r.errorLatch
}

// HeadersSent reports whether FlushHeaders has already run.
func (r *Response) HeadersSent() bool {
	return r.headersSent
}

// WantsClose reports the response's current connection-close intent.
func (r *Response) WantsClose() bool {
	return r.close
}

// RemainingBytes returns the number of declared body bytes not yet
// written.
func (r *Response) RemainingBytes() int64 {
	return r.remainingBytes
}

// MirrorRequestClose sets the response's default close intent before the
// handler runs. It is a no-op once the handler (or a filter) has already
// called SetConnectionClose, which takes precedence.
func (r *Response) MirrorRequestClose(close bool) {
	if r.connectionSet {
		return
	}
	r.close = close
}

// ForceClose marks the connection for closing regardless of any Connection
// header already written. Used after the handler has run, when a protocol
// invariant (undrained request body, undelivered declared body) is
// violated and the connection cannot be safely reused.
func (r *Response) ForceClose() {
	r.close = true
}

func (r *Response) fail(code hwerr.Code, msg string) error {
	r.errorLatch = true
	r.close = true
	return hwerr.New(code, msg)
}

// SetStatusCode stores the status code. Must be called before the first
// header write.
func (r *Response) SetStatusCode(code int) error {
	if r.errorLatch {
		return hwerr.New(hwerr.ResponseOrderViolation, "response already latched with an error")
	}
	if r.statusWritten {
		return r.fail(hwerr.ResponseOrderViolation, "status code set after status line already written")
	}
	r.statusCode = code
	return nil
}

// WriteHeader appends one header. On the first call it first emits the
// status line. Forbidden once headers have been flushed; rejected on a
// duplicate name (case-sensitive) or a missing status code.
func (r *Response) WriteHeader(name, value string) error {
	if r.errorLatch {
		return hwerr.New(hwerr.ResponseOrderViolation, "response already latched with an error")
	}
	if r.headersSent {
		return r.fail(hwerr.ResponseOrderViolation, "header written after headers flushed")
	}
	if r.statusCode == 0 {
		return r.fail(hwerr.ResponseOrderViolation, "header written before status code set")
	}
	for i := 0; i < r.headerN; i++ {
		if r.names[i] == name {
			return r.fail(hwerr.ResponseOrderViolation, "duplicate header: "+name)
		}
	}
	if r.headerN >= MaxHeadersCount {
		return r.fail(hwerr.ResponseOrderViolation, "too many headers")
	}

	if !r.statusWritten {
		if err := r.writeStatusLine(); err != nil {
			return err
		}
	}

	if err := r.appendLine(name + ": " + value + "\r\n"); err != nil {
		return err
	}
	r.names[r.headerN] = name
	r.headerN++
	return nil
}

func (r *Response) writeStatusLine() error {
	code := statuscode.Resolve(r.statusCode)
	line := fmt.Sprintf("HTTP/1.1 %d %s\r\n", code, statuscode.Reason(code))
	if err := r.appendLine(line); err != nil {
		return err
	}
	r.statusWritten = true
	return nil
}

func (r *Response) appendLine(s string) error {
	buf, err := r.arena.Reserve(len(s))
	if err != nil {
		return r.fail(hwerr.ResourceExhausted, "response header arena exhausted")
	}
	copy(buf, s)
	return nil
}

// SetContentLength idempotently declares the body length: only the first
// call takes effect. It writes the header and seeds the remaining-bytes
// counter.
func (r *Response) SetContentLength(n int64) error {
	if r.contentLenSet {
		return nil
	}
	if err := r.WriteHeader("Content-Length", fmt.Sprintf("%d", n)); err != nil {
		return err
	}
	r.contentLenSet = true
	r.contentLength = n
	r.remainingBytes = n
	return nil
}

// SetConnectionClose idempotently declares the connection-close intent.
func (r *Response) SetConnectionClose(close bool) error {
	if r.connectionSet {
		return nil
	}
	value := "keep-alive"
	if close {
		value = "close"
	}
	if err := r.WriteHeader("Connection", value); err != nil {
		return err
	}
	r.connectionSet = true
	r.close = close
	return nil
}

// FlushHeaders is idempotent: on first call it fills in any headers the
// handler omitted (status code required, Content-Length defaulted to 0,
// Connection mirroring current intent, optional Server line), appends the
// final CRLF, and sends the whole arena in one go.
func (r *Response) FlushHeaders(conn Conn) error {
	if r.headersSent {
		return nil
	}
	if r.errorLatch {
		return hwerr.New(hwerr.ResponseOrderViolation, "response already latched with an error")
	}
	if r.statusCode == 0 {
		return r.fail(hwerr.ResponseOrderViolation, "flush attempted before status code set")
	}

	if !r.contentLenSet {
		if err := r.SetContentLength(0); err != nil {
			return err
		}
	}
	if !r.connectionSet {
		if err := r.SetConnectionClose(r.close); err != nil {
			return err
		}
	}
	if ServerHeader != "" {
		written := false
		for i := 0; i < r.headerN; i++ {
			if r.names[i] == "Server" {
				written = true
				break
			}
		}
		if !written {
			if err := r.WriteHeader("Server", ServerHeader); err != nil {
				return err
			}
		}
	}

	if err := r.appendLine("\r\n"); err != nil {
		return err
	}

	if err := r.sendAll(conn, r.arena.Written()); err != nil {
		return err
	}

	r.headersSent = true
	return nil
}

func (r *Response) sendAll(conn Conn, p []byte) error {
	for len(p) > 0 {
		n, err := conn.Write(p)
		if err != nil {
			return r.fail(hwerr.SocketClosed, "short send")
		}
		p = p[n:]
	}
	return nil
}

// WriteBody flushes headers if not yet sent, then send-alls src. If a
// Content-Length was declared, writing more than remainingBytes is an
// error; the error latch trips and the connection is marked close.
func (r *Response) WriteBody(conn Conn, src []byte) error {
	if r.errorLatch {
		return hwerr.New(hwerr.ResponseOrderViolation, "response already latched with an error")
	}
	if !r.headersSent {
		if err := r.FlushHeaders(conn); err != nil {
			return err
		}
	}

	if r.contentLenSet {
		if int64(len(src)) > r.remainingBytes {
			return r.fail(hwerr.ResponseOrderViolation, "body write exceeds declared content-length")
		}
	}

	if err := r.sendAll(conn, src); err != nil {
		return err
	}

	if r.contentLenSet {
		r.remainingBytes -= int64(len(src))
	}
	return nil
}
