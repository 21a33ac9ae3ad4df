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
	"github.com/prometheus/client_golang/prometheus"
)

// Stats is a point-in-time snapshot of a Servlet's counters, independent of
// whether Prometheus wiring is enabled.
type Stats struct {
	ActiveAcceptThreads int32
	RequestsServed      uint64
	ForcedCloses        uint64
}

// metrics mirrors Stats as Prometheus collectors, registered only when
// Config.Metrics is set.
type metrics struct {
	requestsServed prometheus.Counter
	forcedCloses   prometheus.Counter
	activeThreads  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requestsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "highway_requests_served_total",
			Help: "Total number of HTTP requests fully served.",
		}),
		forcedCloses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "highway_forced_closes_total",
			Help: "Total number of connections closed due to a protocol or parse error.",
		}),
		activeThreads: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "highway_accept_threads_active",
			Help: "Number of accept threads currently inside their accept loop.",
		}),
	}
	reg.MustRegister(m.requestsServed, m.forcedCloses, m.activeThreads)
	return m
}
