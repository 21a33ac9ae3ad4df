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

// Command highwayd boots a minimal highway servlet: a GET handler that
// serves a static greeting and a PUT handler that drains a request body
// and replies with its byte count, enough to exercise the framework end
// to end.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nabbar/highway/httpreq"
	"github.com/nabbar/highway/httpresp"
	"github.com/nabbar/highway/internal/hwlog"
	"github.com/nabbar/highway/internal/mimetypes"
	"github.com/nabbar/highway/servlet"
	"github.com/nabbar/highway/socket"
	"github.com/nabbar/highway/version"
	"github.com/sirupsen/logrus"
)

var (
	gitRelease = "dev"
	gitBuild   = ""
	gitDate    = ""
)

func main() {
	fs := flag.NewFlagSet("highwayd", flag.ExitOnError)

	addr := fs.String("addr", ":8080", "numeric host:port to listen on")
	threads := fs.Int("threads", servlet.DefaultAcceptThreads, "number of accept threads")
	logLevel := fs.String("log-level", "info", "logrus level name")
	metrics := fs.Bool("metrics", false, "expose Prometheus counters on the default registerer")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	lvl, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log := hwlog.New(lvl)
	logFn := func() hwlog.Logger { return log }

	v := version.New("highwayd", gitRelease, gitBuild, gitDate)
	httpresp.ServerHeader = v.GetHeader()

	cfg := servlet.Config{
		Socket: socket.Config{
			IPVersion: socket.DualStack,
			Address:   *addr,
		},
		NumAcceptThreads: *threads,
		Log:              logFn,
		Metrics:          *metrics,
	}

	s, err := servlet.New(cfg, demoHandler)
	if err != nil {
		log.Entry(logrus.FatalLevel, "servlet configuration rejected").ErrorAdd(true, err).Log()
		os.Exit(1)
	}

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Entry(logrus.InfoLevel, "shutting down").Log()
		_ = s.Stop()
		<-done
	case err = <-done:
		if err != nil {
			log.Entry(logrus.FatalLevel, "servlet exited").ErrorAdd(true, err).Log()
			os.Exit(1)
		}
	}
}

// demoHandler serves two scenarios: a plain GET that stays on the
// keep-alive path, and a PUT that drains its declared body before
// answering. Anything else gets a 404 with no body.
func demoHandler(req *httpreq.Request, resp *httpresp.Response, conn servlet.Conn) error {
	switch {
	case req.Method.EqualString("GET"):
		return serveGet(req, resp, conn)
	case req.Method.EqualString("PUT"):
		return servePut(req, resp, conn)
	default:
		return serveNotFound(resp, conn)
	}
}

func serveGet(req *httpreq.Request, resp *httpresp.Response, conn servlet.Conn) error {
	body := []byte(fmt.Sprintf("highway says hello from %s\n", req.URI.String()))

	if err := resp.SetStatusCode(200); err != nil {
		return err
	}
	if err := resp.WriteHeader("Content-Type", mimetypes.ByFilename(req.URI.String())); err != nil {
		return err
	}
	if err := resp.SetContentLength(int64(len(body))); err != nil {
		return err
	}
	if err := resp.FlushHeaders(conn); err != nil {
		return err
	}
	return resp.WriteBody(conn, body)
}

func servePut(req *httpreq.Request, resp *httpresp.Response, conn servlet.Conn) error {
	var received int64
	buf := make([]byte, 4096)

	for req.RemainingContentLength() > 0 {
		n, err := req.RecvBody(conn, buf)
		received += int64(n)
		if err != nil {
			return err
		}
	}

	summary := []byte(fmt.Sprintf("received %d bytes\n", received))

	if err := resp.SetStatusCode(200); err != nil {
		return err
	}
	if err := resp.WriteHeader("Content-Type", "text/plain"); err != nil {
		return err
	}
	if err := resp.SetContentLength(int64(len(summary))); err != nil {
		return err
	}
	if err := resp.FlushHeaders(conn); err != nil {
		return err
	}
	return resp.WriteBody(conn, summary)
}

func serveNotFound(resp *httpresp.Response, conn servlet.Conn) error {
	if err := resp.SetStatusCode(404); err != nil {
		return err
	}
	if err := resp.SetContentLength(0); err != nil {
		return err
	}
	return resp.FlushHeaders(conn)
}
