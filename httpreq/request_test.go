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

package httpreq_test

import (
	"bytes"
	"io"
	"strings"

	"github.com/nabbar/highway/arena"
	"github.com/nabbar/highway/httpreq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newRequest() *httpreq.Request {
	return httpreq.New(arena.NewFixed(make([]byte, httpreq.MaxHeaderSize)))
}

var _ = Describe("Request", func() {
	It("parses a GET with no body and keep-alive by default", func() {
		raw := "GET /path HTTP/1.1\r\nHost: example.com\r\n\r\n"
		conn := bytes.NewBufferString(raw)

		r := newRequest()
		Expect(r.ReadHeaders(conn)).To(Succeed())

		Expect(r.State()).To(Equal(httpreq.BodyReady))
		Expect(r.Method.EqualString("GET")).To(BeTrue())
		Expect(r.URI.EqualString("/path")).To(BeTrue())
		Expect(r.Close).To(BeFalse())
		Expect(r.ContentLength).To(Equal(int64(-1)))

		v, ok := r.Header.Get("host")
		Expect(ok).To(BeTrue())
		Expect(v.EqualString("example.com")).To(BeTrue())
	})

	It("recognizes Connection: close case-insensitively", func() {
		raw := "GET / HTTP/1.1\r\nconnection: Close\r\n\r\n"
		conn := bytes.NewBufferString(raw)

		r := newRequest()
		Expect(r.ReadHeaders(conn)).To(Succeed())
		Expect(r.Close).To(BeTrue())
	})

	It("captures Content-Length and delivers read-ahead body bytes", func() {
		raw := "PUT /x HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello"
		conn := bytes.NewBufferString(raw)

		r := newRequest()
		Expect(r.ReadHeaders(conn)).To(Succeed())
		Expect(r.ContentLength).To(Equal(int64(5)))
		Expect(r.RemainingContentLength()).To(Equal(int64(5)))

		buf := make([]byte, 5)
		n, err := r.RecvBody(conn, buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(5))
		Expect(string(buf)).To(Equal("hello"))
		Expect(r.RemainingContentLength()).To(Equal(int64(0)))

		n, err = r.RecvBody(conn, buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(-1))
	})

	It("splits read-ahead across a recv boundary", func() {
		raw := "PUT /x HTTP/1.1\r\nContent-Length: 10\r\n\r\nhel"
		conn := &sequencedReader{chunks: []string{raw, "lo world!"}}

		r := newRequest()
		Expect(r.ReadHeaders(conn)).To(Succeed())

		buf := make([]byte, 10)
		total := 0
		for total < 10 {
			n, err := r.RecvBody(conn, buf[total:])
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeNumerically(">", 0))
			total += n
		}
		Expect(string(buf)).To(Equal("hello worl"))
	})

	It("rejects a non-HTTP/1.1 version", func() {
		raw := "GET / HTTP/1.0\r\n\r\n"
		conn := bytes.NewBufferString(raw)

		r := newRequest()
		err := r.ReadHeaders(conn)
		Expect(err).To(HaveOccurred())
		Expect(r.State()).To(Equal(httpreq.Invalid))
	})

	It("rejects a malformed status line", func() {
		raw := "GET ONLYTWO\r\n\r\n"
		conn := bytes.NewBufferString(raw)

		r := newRequest()
		err := r.ReadHeaders(conn)
		Expect(err).To(HaveOccurred())
		Expect(r.State()).To(Equal(httpreq.Invalid))
	})

	It("rejects more than MaxHeadersCount headers", func() {
		var b strings.Builder
		b.WriteString("GET / HTTP/1.1\r\n")
		for i := 0; i < httpreq.MaxHeadersCount+1; i++ {
			b.WriteString("X-Test: v\r\n")
		}
		b.WriteString("\r\n")
		conn := bytes.NewBufferString(b.String())

		r := newRequest()
		err := r.ReadHeaders(conn)
		Expect(err).To(HaveOccurred())
	})

	It("parses a request with exactly MaxHeadersCount headers", func() {
		var b strings.Builder
		b.WriteString("GET / HTTP/1.1\r\n")
		for i := 0; i < httpreq.MaxHeadersCount; i++ {
			b.WriteString("X-Test: v\r\n")
		}
		b.WriteString("\r\n")
		conn := bytes.NewBufferString(b.String())

		r := newRequest()
		Expect(r.ReadHeaders(conn)).To(Succeed())
		Expect(r.Header.Count()).To(Equal(httpreq.MaxHeadersCount))
	})

	It("rejects a status line that is exactly MaxHeaderSize bytes", func() {
		// Content length (excluding its own LF) of MaxHeaderSize-1, plus
		// that LF, totals MaxHeaderSize bytes and leaves no room in the
		// arena's fixed header block for the terminating blank line.
		const prefix, suffix = "GET ", " HTTP/1.1"
		padLen := httpreq.MaxHeaderSize - 1 - len(prefix) - len(suffix)
		raw := prefix + strings.Repeat("a", padLen) + suffix + "\n"
		conn := bytes.NewBufferString(raw)

		r := newRequest()
		err := r.ReadHeaders(conn)
		Expect(err).To(HaveOccurred())
		Expect(r.State()).To(Equal(httpreq.Invalid))
	})

	It("parses a status line of MaxHeaderSize-1 bytes with a trailing LF", func() {
		// Content length (excluding its own LF) of MaxHeaderSize-2, plus
		// that LF, totals MaxHeaderSize-1 bytes, leaving exactly one byte
		// of budget for the terminating blank line's own LF.
		const prefix, suffix = "GET ", " HTTP/1.1"
		padLen := httpreq.MaxHeaderSize - 2 - len(prefix) - len(suffix)
		raw := prefix + strings.Repeat("a", padLen) + suffix + "\n" + "\n"
		conn := bytes.NewBufferString(raw)

		r := newRequest()
		Expect(r.ReadHeaders(conn)).To(Succeed())
		Expect(r.State()).To(Equal(httpreq.BodyReady))
		Expect(r.Method.EqualString("GET")).To(BeTrue())
	})

	It("is reusable across connections via Reset", func() {
		r := newRequest()

		Expect(r.ReadHeaders(bytes.NewBufferString("GET /one HTTP/1.1\r\n\r\n"))).To(Succeed())
		Expect(r.URI.EqualString("/one")).To(BeTrue())

		r.Reset()
		Expect(r.State()).To(Equal(httpreq.Idle))

		Expect(r.ReadHeaders(bytes.NewBufferString("GET /two HTTP/1.1\r\n\r\n"))).To(Succeed())
		Expect(r.URI.EqualString("/two")).To(BeTrue())
	})
})

// sequencedReader returns successive chunks on successive Read calls,
// simulating a socket that delivers the body in a later recv.
type sequencedReader struct {
	chunks []string
	i      int
	buf    []byte
}

func (s *sequencedReader) Read(p []byte) (int, error) {
	for len(s.buf) == 0 {
		if s.i >= len(s.chunks) {
			return 0, io.EOF
		}
		s.buf = []byte(s.chunks[s.i])
		s.i++
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}
