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

// Package socket implements the synchronous TCP listener: bind/listen on
// IPv4, IPv6 or dual-stack, per-connection timeouts, and accept with typed
// error classification.
package socket

import (
	"context"
	"net"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nabbar/highway/internal/hwerr"
	"golang.org/x/sys/unix"
)

// IPVersion selects the address family a Listener binds.
type IPVersion uint8

const (
	IPv4 IPVersion = iota
	IPv6
	DualStack
)

// DefaultBacklog is the listen backlog spec.md mandates.
const DefaultBacklog = 500

// Config describes how a Listener is created and how accepted connections
// are tuned.
type Config struct {
	IPVersion   IPVersion     `validate:"min=0,max=2"`
	Address     string        // numeric host:port, or "" for ANY
	Backlog     int           `validate:"gte=0"`
	RecvTimeout time.Duration `validate:"gte=0"`
	SendTimeout time.Duration `validate:"gte=0"`
	ReusePort   bool
}

var cfgValidate = validator.New()

// Validate checks Config's struct tags, catching a negative backlog or
// timeout before Listen attempts to bind.
func (c Config) Validate() error {
	if err := cfgValidate.Struct(c); err != nil {
		return hwerr.Wrap(hwerr.SocketConfig, err)
	}
	return nil
}

func (c Config) backlog() int {
	if c.Backlog <= 0 {
		return DefaultBacklog
	}
	return c.Backlog
}

func (c Config) network() string {
	switch c.IPVersion {
	case IPv4:
		return "tcp4"
	case IPv6:
		return "tcp6"
	default:
		return "tcp"
	}
}

// Listener wraps a bound, listening TCP socket.
type Listener struct {
	cfg Config
	ln  *net.TCPListener
}

// Listen creates, configures, binds and starts listening per cfg. On any
// failure the partially-constructed socket is closed and a typed hwerr.Error
// is returned (CREATE/CONFIG/BIND/LISTEN).
func Listen(cfg Config) (*Listener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var ctrlErr error
			err := c.Control(func(fd uintptr) {
				if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); e != nil {
					ctrlErr = hwerr.Wrap(hwerr.SocketConfig, e)
					return
				}
				if cfg.ReusePort {
					// SO_REUSEPORT is not defined on every platform this
					// module targets; best effort, non-fatal if missing.
					_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
				}
			})
			if err != nil {
				return hwerr.Wrap(hwerr.SocketConfig, err)
			}
			return ctrlErr
		},
	}

	addr := cfg.Address
	raw, err := lc.Listen(context.Background(), cfg.network(), addr)
	if err != nil {
		return nil, classifyListenErr(err)
	}

	tln, ok := raw.(*net.TCPListener)
	if !ok {
		_ = raw.Close()
		return nil, hwerr.New(hwerr.SocketCreate, "listener is not a TCP listener")
	}

	if err = applyListenerOptions(tln, cfg); err != nil {
		_ = tln.Close()
		return nil, err
	}

	return &Listener{cfg: cfg, ln: tln}, nil
}

func applyListenerOptions(ln *net.TCPListener, cfg Config) error {
	raw, err := ln.SyscallConn()
	if err != nil {
		return hwerr.Wrap(hwerr.SocketConfig, err)
	}

	var ctrlErr error
	err = raw.Control(func(fd uintptr) {
		// Go's own listen() used its OS-derived backlog; listen() again on
		// the listening socket so cfg.Backlog (DefaultBacklog 500) applies.
		if e := unix.Listen(int(fd), cfg.backlog()); e != nil {
			ctrlErr = e
			return
		}
		if e := unix.SetsockoptLinger(int(fd), unix.SOL_SOCKET, unix.SO_LINGER, &unix.Linger{Onoff: 0, Linger: 0}); e != nil {
			ctrlErr = e
			return
		}
		if cfg.IPVersion == DualStack {
			_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 0)
		}
	})
	if err != nil {
		return hwerr.Wrap(hwerr.SocketConfig, err)
	}
	if ctrlErr != nil {
		return hwerr.Wrap(hwerr.SocketConfig, ctrlErr)
	}
	return nil
}

// Accept blocks for the next inbound connection and sets TCP_NODELAY on the
// accepted socket. The configured timeouts are applied by
// Conn.RefreshDeadlines, not here.
func (l *Listener) Accept() (*Conn, error) {
	c, err := l.ln.AcceptTCP()
	if err != nil {
		return nil, hwerr.Wrap(hwerr.SocketAccept, err)
	}

	if err = c.SetNoDelay(true); err != nil {
		_ = c.Close()
		return nil, hwerr.Wrap(hwerr.SocketConfig, err)
	}
	if err = c.SetLinger(-1); err != nil {
		_ = c.Close()
		return nil, hwerr.Wrap(hwerr.SocketConfig, err)
	}

	return &Conn{TCPConn: c, cfg: l.cfg}, nil
}

// Close shuts down the listen socket. A blocked Accept returns an error
// once Close runs; this is the intentional mechanism the Server (component
// G) uses to stop its accept loop.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Addr returns the bound local address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Conn is an accepted connection with the Listener's timeouts re-applied on
// every Read/Write deadline refresh.
type Conn struct {
	*net.TCPConn
	cfg Config
}

// RefreshDeadlines re-applies the configured recv/send timeouts; callers
// invoke it before each blocking Read/Write when per-call (rather than
// absolute) timeouts are desired.
func (c *Conn) RefreshDeadlines() error {
	now := time.Now()
	if c.cfg.RecvTimeout > 0 {
		if err := c.SetReadDeadline(now.Add(c.cfg.RecvTimeout)); err != nil {
			return hwerr.Wrap(hwerr.SocketConfig, err)
		}
	}
	if c.cfg.SendTimeout > 0 {
		if err := c.SetWriteDeadline(now.Add(c.cfg.SendTimeout)); err != nil {
			return hwerr.Wrap(hwerr.SocketConfig, err)
		}
	}
	return nil
}

// PeerAddr returns the remote address in textual form, sized for IPv6.
func (c *Conn) PeerAddr() string {
	return c.RemoteAddr().String()
}

func classifyListenErr(err error) error {
	if ne, ok := err.(*net.OpError); ok {
		switch ne.Op {
		case "listen":
			return hwerr.Wrap(hwerr.SocketListen, err)
		case "bind":
			return hwerr.Wrap(hwerr.SocketBind, err)
		}
	}
	return hwerr.Wrap(hwerr.SocketCreate, err)
}
