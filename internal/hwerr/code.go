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

// Package hwerr defines the error kinds used across the servlet core.
package hwerr

// Code classifies an error into one of the kinds enumerated in spec.md §7.
type Code uint16

const (
	// CodeNone is the zero value; never assigned to a real error.
	CodeNone Code = iota
	// ConfigInvalid marks a server configuration that could not be applied.
	ConfigInvalid
	// ResourceExhausted marks an arena overflow or other allocation failure.
	ResourceExhausted
	// SocketCreate marks a socket() syscall failure.
	SocketCreate
	// SocketConfig marks a setsockopt() failure while configuring the socket.
	SocketConfig
	// SocketBind marks a bind() failure.
	SocketBind
	// SocketListen marks a listen() failure.
	SocketListen
	// SocketAccept marks an accept() failure.
	SocketAccept
	// SocketTimeout marks a read/write timeout on a connected socket.
	SocketTimeout
	// SocketClosed marks an operation attempted on a socket that is already closed.
	SocketClosed
	// ProtocolInvalid marks a malformed request (status line, headers, framing).
	ProtocolInvalid
	// ResponseOrderViolation marks a response builder ordering violation.
	ResponseOrderViolation
	// HandlerPanic marks a panic recovered from a filter or handler invocation.
	HandlerPanic
)

// String returns a short, stable name for the code. Used in log fields.
func (c Code) String() string {
	switch c {
	case ConfigInvalid:
		return "config_invalid"
	case ResourceExhausted:
		return "resource_exhausted"
	case SocketCreate:
		return "socket_create"
	case SocketConfig:
		return "socket_config"
	case SocketBind:
		return "socket_bind"
	case SocketListen:
		return "socket_listen"
	case SocketAccept:
		return "socket_accept"
	case SocketTimeout:
		return "socket_timeout"
	case SocketClosed:
		return "socket_closed"
	case ProtocolInvalid:
		return "protocol_invalid"
	case ResponseOrderViolation:
		return "response_order_violation"
	case HandlerPanic:
		return "handler_panic"
	default:
		return "none"
	}
}
