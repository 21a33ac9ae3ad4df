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

// Package httpreq implements the HTTP/1.1 request reader: status-line and
// header parsing driven by a small state machine, read-ahead body
// accounting, and body delivery via recv.
package httpreq

import (
	"io"

	"github.com/nabbar/highway/arena"
	"github.com/nabbar/highway/bytesview"
	"github.com/nabbar/highway/internal/hwerr"
)

// MaxHeaderSize is the maximum size of the status-line + header block.
const MaxHeaderSize = 8 * 1024

// MaxHeadersCount is the maximum number of headers accepted per request.
const MaxHeadersCount = 32

// State is the request reader's parse state.
type State uint8

const (
	Idle State = iota
	ReadingStatus
	ReadingHeaders
	BodyReady
	Invalid
)

// Header is a parsed (name, value) pair; both views point into the
// Request's arena.
type Header struct {
	Name  bytesview.View
	Value bytesview.View
}

// HeaderSet is a fixed-capacity ordered collection of Headers.
type HeaderSet struct {
	items [MaxHeadersCount]Header
	count int
}

// Count returns the number of headers stored.
func (h *HeaderSet) Count() int {
	return h.count
}

// At returns the header at index i.
func (h *HeaderSet) At(i int) Header {
	return h.items[i]
}

// Get returns the first header whose name matches name (ASCII
// case-insensitive), and whether one was found.
func (h *HeaderSet) Get(name string) (bytesview.View, bool) {
	for i := 0; i < h.count; i++ {
		if h.items[i].Name.EqualFold(name) {
			return h.items[i].Value, true
		}
	}
	return bytesview.View{}, false
}

func (h *HeaderSet) append(name, value bytesview.View) error {
	if h.count >= MaxHeadersCount {
		return hwerr.New(hwerr.ProtocolInvalid, "too many headers")
	}
	h.items[h.count] = Header{Name: name, Value: value}
	h.count++
	return nil
}

// Reset clears the set for reuse without releasing backing storage.
func (h *HeaderSet) Reset() {
	h.count = 0
}

// Conn is the minimal connection surface the reader needs: a blocking
// Read, used both to fill the header block and to satisfy RecvBody.
type Conn interface {
	Read(p []byte) (n int, err error)
}

// Request is a per-worker, reusable HTTP/1.1 request reader. Its arena
// must be a fixed arena: parsed views must remain valid for the life of
// the request without relocation.
type Request struct {
	arena *arena.Arena

	state State

	Method bytesview.View
	URI    bytesview.View
	Header HeaderSet

	ContentLength int64 // -1 if absent
	remaining     int64
	Close         bool

	block               []byte
	filled              int
	cursorAfterLastLine int // offset into block just past the last consumed line
	readHead            int // offset into block where the read-ahead body begins
	readLen             int
}

// New creates a Request backed by a.
func New(a *arena.Arena) *Request {
	return &Request{arena: a, ContentLength: -1}
}

// Reset prepares the Request for a new connection: rewinds the arena and
// clears all parsed state.
func (r *Request) Reset() {
	r.arena.Reset()
	r.state = Idle
	r.Method = bytesview.View{}
	r.URI = bytesview.View{}
	r.Header.Reset()
	r.ContentLength = -1
	r.remaining = 0
	r.Close = false
	r.block = nil
	r.filled = 0
	r.cursorAfterLastLine = 0
	r.readHead = 0
	r.readLen = 0
}

// State returns the reader's current state.
func (r *Request) State() State {
	return r.state
}

// RemainingContentLength returns the number of declared body bytes not
// yet delivered via RecvBody.
func (r *Request) RemainingContentLength() int64 {
	return r.remaining
}

// ReadHeaders drives the reader from Idle through ReadingStatus and
// ReadingHeaders to BodyReady (or Invalid on malformed input), reading
// from conn as needed.
func (r *Request) ReadHeaders(conn Conn) error {
	r.state = ReadingStatus

	block, err := r.arena.Reserve(MaxHeaderSize)
	if err != nil {
		r.state = Invalid
		return err
	}
	r.block = block

	statusLine, ok, err := r.fillUntilLine(conn)
	if err != nil {
		r.state = Invalid
		return err
	}
	if !ok {
		r.state = Invalid
		return hwerr.New(hwerr.ProtocolInvalid, "status line too long or malformed")
	}

	if err = r.parseStatusLine(statusLine); err != nil {
		r.state = Invalid
		return err
	}

	r.state = ReadingHeaders
	for {
		line, ok, err := r.fillUntilLine(conn)
		if err != nil {
			r.state = Invalid
			return err
		}
		if !ok {
			r.state = Invalid
			return hwerr.New(hwerr.ProtocolInvalid, "header section too long or malformed")
		}
		if line.Empty() {
			r.readHead = r.cursorAfterLastLine
			r.readLen = r.filled - r.readHead
			break
		}
		if err = r.parseHeaderLine(line); err != nil {
			r.state = Invalid
			return err
		}
	}

	r.state = BodyReady
	return nil
}

// fillUntilLine returns the next LF-terminated line from r.block,
// recv'ing more bytes from conn as needed. ok is false if the block fills
// up without a line terminator appearing.
func (r *Request) fillUntilLine(conn Conn) (line bytesview.View, ok bool, err error) {
	for {
		rest := r.block[r.cursorAfterLastLine:r.filled]
		if lv, tail, found := bytesview.ReadLine(rest); found {
			consumed := len(rest) - len(tail)
			r.cursorAfterLastLine += consumed
			return lv, true, nil
		}

		if r.filled >= len(r.block) {
			return bytesview.View{}, false, nil
		}

		n, rerr := conn.Read(r.block[r.filled:])
		if n > 0 {
			r.filled += n
		}
		if rerr != nil {
			if n > 0 {
				continue
			}
			return bytesview.View{}, false, hwerr.Wrap(hwerr.SocketTimeout, rerr)
		}
		if n == 0 {
			return bytesview.View{}, false, hwerr.New(hwerr.ProtocolInvalid, "connection closed before headers complete")
		}
	}
}

func (r *Request) parseStatusLine(line bytesview.View) error {
	parts := bytesview.Split(line, ' ', 3)
	if len(parts) != 3 {
		return hwerr.New(hwerr.ProtocolInvalid, "status line must have 3 tokens")
	}
	if !parts[2].Trim().EqualString("HTTP/1.1") {
		return hwerr.New(hwerr.ProtocolInvalid, "unsupported HTTP version")
	}
	r.Method = parts[0]
	r.URI = parts[1]
	return nil
}

func (r *Request) parseHeaderLine(line bytesview.View) error {
	parts := bytesview.Split(line, ':', 2)
	if len(parts) != 2 {
		return hwerr.New(hwerr.ProtocolInvalid, "malformed header line")
	}
	name := parts[0].Trim()
	value := parts[1].Trim()

	if err := r.Header.append(name, value); err != nil {
		return err
	}

	switch {
	case name.EqualFold("Connection"):
		r.Close = value.EqualFold("close")
	case name.EqualFold("Content-Length"):
		n, rest, ok := value.ToUint()
		if !ok || !rest.Empty() {
			return hwerr.New(hwerr.ProtocolInvalid, "malformed Content-Length")
		}
		r.ContentLength = int64(n)
		r.remaining = int64(n)
	}
	return nil
}

// RecvBody clamps n to the remaining content length, drains any
// read-ahead bytes first, then reads from conn for the rest. It returns
// -1 once the body is fully drained, when no Content-Length was
// advertised, or when conn fails before any byte was delivered in this
// call; a failure after some bytes were delivered returns that count
// together with the error. A peer close (io.EOF) that leaves the read
// empty counts as a failure.
func (r *Request) RecvBody(conn Conn, dest []byte) (int, error) {
	if r.ContentLength < 0 || r.remaining <= 0 {
		return -1, nil
	}

	n := int64(len(dest))
	if n > r.remaining {
		n = r.remaining
	}

	written := 0
	if r.readLen > 0 {
		k := int(n)
		if k > r.readLen {
			k = r.readLen
		}
		copy(dest[:k], r.block[r.readHead:r.readHead+k])
		r.readHead += k
		r.readLen -= k
		written = k
		r.remaining -= int64(k)
		if written == int(n) {
			return written, nil
		}
	}

	remaining := int(n) - written
	if remaining <= 0 {
		return written, nil
	}

	rn, err := conn.Read(dest[written : written+remaining])
	if rn > 0 {
		written += rn
		r.remaining -= int64(rn)
	}
	if err != nil && (err != io.EOF || rn == 0) {
		if written == 0 {
			return -1, hwerr.Wrap(hwerr.SocketTimeout, err)
		}
		return written, hwerr.Wrap(hwerr.SocketTimeout, err)
	}
	return written, nil
}
