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

// Package server holds the listen socket and running flag a Servlet
// (component J) drives: Start binds and listens, Stop is idempotent and
// signal-safe, closing the listen socket to unblock a pending Accept.
package server

import (
	"sync"
	"sync/atomic"

	"github.com/nabbar/highway/internal/hwerr"
	"github.com/nabbar/highway/internal/hwlog"
	"github.com/nabbar/highway/socket"
	"github.com/sirupsen/logrus"
)

// Server owns a listen socket, a running flag, and an opaque user-data
// pointer. A Servlet owns the Server for the lifetime of one run.
type Server struct {
	m   sync.RWMutex
	cfg socket.Config
	log hwlog.FuncLog
	ln  *socket.Listener

	running  atomic.Bool
	userData atomic.Value
}

// New allocates a Server with no listen socket and running = false.
func New(cfg socket.Config, log hwlog.FuncLog) *Server {
	return &Server{cfg: cfg, log: log}
}

func (s *Server) logger() hwlog.Logger {
	return hwlog.Resolve(s.log)
}

// Start binds and listens per the Server's config. On success running
// becomes true.
func (s *Server) Start() error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.ln != nil {
		return hwerr.New(hwerr.SocketConfig, "server already started")
	}

	ln, err := socket.Listen(s.cfg)
	if err != nil {
		s.logger().Entry(logrus.ErrorLevel, "server start failed").ErrorAdd(true, err).Log()
		return err
	}

	s.ln = ln
	s.running.Store(true)
	s.logger().Entry(logrus.InfoLevel, "server started").Field("addr", ln.Addr().String()).Log()
	return nil
}

// Stop is idempotent and signal-safe: it clears the running flag and
// closes the listen socket, which is the mechanism that unblocks a
// pending Accept in the Servlet's accept loop.
func (s *Server) Stop() error {
	s.m.Lock()
	defer s.m.Unlock()

	if !s.running.Swap(false) {
		return nil
	}

	if s.ln == nil {
		return nil
	}

	err := s.ln.Close()
	s.ln = nil
	s.logger().Entry(logrus.InfoLevel, "server stopped").ErrorAdd(true, err).Check(hwlog.NilLevel)
	return err
}

// IsRunning reports the current running flag.
func (s *Server) IsRunning() bool {
	return s.running.Load()
}

// Listener returns the bound Listener, or nil before Start or after Stop.
func (s *Server) Listener() *socket.Listener {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.ln
}

// SetUserData stores an opaque pointer. Refused once the listen socket
// exists, matching spec.md §4.G.
func (s *Server) SetUserData(v interface{}) error {
	s.m.RLock()
	hasSocket := s.ln != nil
	s.m.RUnlock()

	if hasSocket {
		return hwerr.New(hwerr.ConfigInvalid, "cannot set user data once the listen socket exists")
	}

	s.userData.Store(v)
	return nil
}

// GetUserData retrieves the value set by SetUserData, or nil.
func (s *Server) GetUserData() interface{} {
	return s.userData.Load()
}
