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

package servlet

import (
	"github.com/nabbar/highway/httpreq"
	"github.com/nabbar/highway/httpresp"
)

// Conn is the connection surface a Handler or Filter gets: enough to read
// an unconsumed request body (httpreq.Conn) and write a response
// (httpresp.Conn). *socket.Conn satisfies it.
type Conn interface {
	httpreq.Conn
	httpresp.Conn
}

// Handler is the terminal application callback. It may read at most
// req.RemainingContentLength() bytes from conn and must set a status code
// before writing any header.
type Handler func(req *httpreq.Request, resp *httpresp.Response, conn Conn) error

// FilterFunc is one link of a filter chain. A filter that wants the request
// to continue down the chain calls chain.Next; a filter that wants to short
// circuit returns without calling it.
type FilterFunc func(req *httpreq.Request, resp *httpresp.Response, conn Conn, data interface{}, chain *Chain) error

// Filter pairs a FilterFunc with opaque user data, mirroring spec.md §3's
// (function, user_data) pair.
type Filter struct {
	Func FilterFunc
	Data interface{}
}

// Chain is a cursor into a Servlet's filter list. Reaching the end invokes
// the terminal Handler, matching the null-terminator semantics of spec.md's
// FilterChain.
type Chain struct {
	filters  []Filter
	idx      int
	terminal Handler
}

// Next advances the chain: if filters remain, it invokes the next one;
// otherwise it invokes the terminal handler.
func (c *Chain) Next(req *httpreq.Request, resp *httpresp.Response, conn Conn) error {
	if c.idx >= len(c.filters) {
		return c.terminal(req, resp, conn)
	}
	f := c.filters[c.idx]
	c.idx++
	return f.Func(req, resp, conn, f.Data, c)
}
