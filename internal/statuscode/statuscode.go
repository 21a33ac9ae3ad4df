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

// Package statuscode maps HTTP status codes to reason phrases. Unknown
// codes deliberately map to 418 I'm a teapot per spec: production use
// must register the mapping it needs.
package statuscode

import "sync"

// Teapot is the sentinel fallback for a status code with no registered
// reason phrase.
const Teapot = 418

var mu sync.RWMutex

var reasons = map[int]string{
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found",
	304: "Not Modified",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	409: "Conflict",
	411: "Length Required",
	413: "Payload Too Large",
	414: "URI Too Long",
	418: "I'm a teapot",
	431: "Request Header Fields Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
}

// Reason returns the canonical reason phrase for code, or the teapot
// fallback's phrase if code has no registered mapping.
func Reason(code int) string {
	mu.RLock()
	defer mu.RUnlock()

	if r, ok := reasons[code]; ok {
		return r
	}
	return reasons[Teapot]
}

// Resolve returns code itself if registered, otherwise Teapot.
func Resolve(code int) int {
	mu.RLock()
	defer mu.RUnlock()

	if _, ok := reasons[code]; ok {
		return code
	}
	return Teapot
}

// Register adds or overrides a code/reason mapping, letting a production
// deployment extend the canonical set instead of falling through to the
// teapot sentinel. Call before serving starts; Register is not meant to
// race with concurrent Reason/Resolve calls from live connections.
func Register(code int, reason string) {
	mu.Lock()
	defer mu.Unlock()
	reasons[code] = reason
}
