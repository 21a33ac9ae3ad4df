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

// Package servlet implements the servlet runtime: a fixed pool of accept
// threads, each serving one connection at a time end-to-end through a
// filter chain ending at a terminal Handler, against a shared listening
// Server.
package servlet

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nabbar/highway/arena"
	"github.com/nabbar/highway/ctxstack"
	"github.com/nabbar/highway/httpreq"
	"github.com/nabbar/highway/httpresp"
	"github.com/nabbar/highway/internal/hwerr"
	"github.com/nabbar/highway/internal/hwlog"
	"github.com/nabbar/highway/server"
	"github.com/nabbar/highway/socket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultAcceptThreads is the accept-thread count used when
// Config.NumAcceptThreads is unset.
const DefaultAcceptThreads = 8

// Config parameterizes a Servlet.
type Config struct {
	Socket           socket.Config
	NumAcceptThreads int `validate:"gte=0"`
	UserData         interface{}
	Log              hwlog.FuncLog
	OnThreadStart    func(t *ctxstack.Thread)
	Metrics          bool
	Registerer       prometheus.Registerer
}

var cfgValidate = validator.New()

// Validate checks Config's own struct tags and delegates to Socket's.
func (c Config) Validate() error {
	if err := cfgValidate.Struct(c); err != nil {
		return hwerr.Wrap(hwerr.ConfigInvalid, err)
	}
	return c.Socket.Validate()
}

func (c Config) acceptThreads() int {
	if c.NumAcceptThreads <= 0 {
		return DefaultAcceptThreads
	}
	return c.NumAcceptThreads
}

// Servlet binds a filter chain and a terminal Handler to a Server and runs
// the fixed-size accept-thread pool spec.md §4.J describes.
type Servlet struct {
	cfg     Config
	srv     *server.Server
	handler Handler
	filters []Filter
	mon     *metrics
	group   errgroup.Group

	activeThreads  atomic.Int32
	requestsServed atomic.Uint64
	forcedCloses   atomic.Uint64
}

// New creates a Servlet. handler is the terminal handler invoked once the
// filter chain (if any) reaches its end.
func New(cfg Config, handler Handler, filters ...Filter) (*Servlet, error) {
	if handler == nil {
		return nil, hwerr.New(hwerr.ConfigInvalid, "servlet requires a terminal handler")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	srv := server.New(cfg.Socket, cfg.Log)
	if cfg.UserData != nil {
		if err := srv.SetUserData(cfg.UserData); err != nil {
			return nil, err
		}
	}

	s := &Servlet{
		cfg:     cfg,
		srv:     srv,
		handler: handler,
		filters: filters,
	}

	if cfg.Metrics {
		reg := cfg.Registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		s.mon = newMetrics(reg)
	}

	return s, nil
}

func (s *Servlet) logger() hwlog.Logger {
	return hwlog.Resolve(s.cfg.Log)
}

// Stats returns a point-in-time snapshot of the servlet's counters.
func (s *Servlet) Stats() Stats {
	return Stats{
		ActiveAcceptThreads: s.activeThreads.Load(),
		RequestsServed:      s.requestsServed.Load(),
		ForcedCloses:        s.forcedCloses.Load(),
	}
}

// Server exposes the underlying Server, e.g. for IsRunning checks in tests.
func (s *Servlet) Server() *server.Server {
	return s.srv
}

// Start binds the listen socket, launches NumAcceptThreads-1 background
// accept threads, then runs the final accept loop inline on the calling
// goroutine, blocking until Stop closes the listen socket and every accept
// thread has unwound.
func (s *Servlet) Start() error {
	if err := s.srv.Start(); err != nil {
		return err
	}

	n := s.cfg.acceptThreads()

	for i := 0; i < n-1; i++ {
		name := fmt.Sprintf("accept-%d", i)
		t := ctxstack.New(name, s.acceptLoop)
		s.group.Go(func() error {
			t.Start()
			for !t.Wait(time.Hour) {
			}
			return nil
		})
	}

	s.acceptLoop(ctxstack.Main())

	return s.group.Wait()
}

// Stop closes the listen socket, which unblocks every accept thread's
// pending Accept and lets Start return.
func (s *Servlet) Stop() error {
	return s.srv.Stop()
}

// acceptLoop is one accept thread's entire lifetime: construct one Request
// and one Response bound to fixed 8 KiB arenas, then serve connections
// until the Server stops running.
func (s *Servlet) acceptLoop(t *ctxstack.Thread) {
	if s.cfg.OnThreadStart != nil {
		s.cfg.OnThreadStart(t)
	}

	req := httpreq.New(arena.NewFixed(make([]byte, httpreq.MaxHeaderSize)))
	resp := httpresp.New(arena.NewFixed(make([]byte, httpresp.MaxHeaderSize)))

	s.activeThreads.Add(1)
	if s.mon != nil {
		s.mon.activeThreads.Inc()
	}
	defer func() {
		s.activeThreads.Add(-1)
		if s.mon != nil {
			s.mon.activeThreads.Dec()
		}
	}()

	for s.srv.IsRunning() {
		ln := s.srv.Listener()
		if ln == nil {
			return
		}

		conn, err := ln.Accept()
		if err != nil {
			continue
		}

		s.serveConnection(conn, req, resp)
	}
}

// serveConnection runs spec.md §4.J's per-connection loop (steps b-i): it
// serves requests on conn, one at a time, until either side signals close.
func (s *Servlet) serveConnection(conn *socket.Conn, req *httpreq.Request, resp *httpresp.Response) {
	defer conn.Close()

	for {
		req.Reset()
		resp.Reset()

		if err := conn.RefreshDeadlines(); err != nil {
			return
		}

		if err := req.ReadHeaders(conn); err != nil {
			s.onForcedClose()
			return
		}

		resp.MirrorRequestClose(req.Close)

		if err := s.dispatch(req, resp, conn); err != nil {
			s.logger().Entry(logrus.ErrorLevel, "handler failed").ErrorAdd(true, err).Log()
		}

		forced := false
		if req.RemainingContentLength() > 0 {
			resp.ForceClose()
			forced = true
		}

		if !resp.HeadersSent() {
			if err := resp.FlushHeaders(conn); err != nil {
				s.onForcedClose()
				return
			}
		}

		if resp.RemainingBytes() > 0 {
			resp.ForceClose()
			forced = true
		}

		s.onRequestServed()
		if forced {
			s.onForcedClose()
		}

		if !resp.WantsClose() {
			continue
		}
		return
	}
}

// dispatch invokes the filter chain (or the terminal handler directly if
// no filters are configured), recovering a panicking filter or handler
// into a forced-close HandlerPanic error.
func (s *Servlet) dispatch(req *httpreq.Request, resp *httpresp.Response, conn *socket.Conn) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			resp.ForceClose()
			err = hwerr.Newf(hwerr.HandlerPanic, "recovered: %v", rec)
		}
	}()

	if len(s.filters) == 0 {
		return s.handler(req, resp, conn)
	}

	chain := &Chain{filters: s.filters, terminal: s.handler}
	return chain.Next(req, resp, conn)
}

func (s *Servlet) onForcedClose() {
	s.forcedCloses.Add(1)
	if s.mon != nil {
		s.mon.forcedCloses.Inc()
	}
}

func (s *Servlet) onRequestServed() {
	s.requestsServed.Add(1)
	if s.mon != nil {
		s.mon.requestsServed.Inc()
	}
}
