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

// Package workerpool implements a fixed-size pool of Workers, each with
// its own critical section and FIFO work queue, placed round-robin.
package workerpool

import (
	"strconv"
	"sync"
	"time"

	"github.com/nabbar/highway/critsec"
	"github.com/nabbar/highway/ctxstack"
	"github.com/nabbar/highway/internal/hwerr"
)

// Func is one unit of submitted work. It runs with thread.GetUserData()
// equal to the data passed to Push.
type Func func(thread *ctxstack.Thread)

// workItem is one queued work record; returned to its Worker's freelist
// once run.
type workItem struct {
	fn   Func
	data interface{}
	next *workItem
}

// Worker owns a critical section, a FIFO queue, and a freelist of spent
// work records. Only the pool (for Push/placement) and the worker's own
// loop ever touch its queue/freelist, always under its CritSec.
type Worker struct {
	cs       *critsec.CritSec
	thread   *ctxstack.Thread
	running  bool
	head     *workItem
	tail     *workItem
	freeHead *workItem

	timeout time.Duration
}

func newWorker(name string, timeout time.Duration, onStart func(*ctxstack.Thread)) *Worker {
	w := &Worker{cs: critsec.New(), timeout: timeout}
	w.thread = ctxstack.New(name, func(t *ctxstack.Thread) {
		if onStart != nil {
			onStart(t)
		}
		w.loop(t)
	})
	return w
}

func (w *Worker) alloc(fn Func, data interface{}) *workItem {
	if w.freeHead != nil {
		it := w.freeHead
		w.freeHead = it.next
		it.fn, it.data, it.next = fn, data, nil
		return it
	}
	return &workItem{fn: fn, data: data}
}

func (w *Worker) release(it *workItem) {
	it.fn, it.data = nil, nil
	it.next = w.freeHead
	w.freeHead = it
}

func (w *Worker) push(fn Func, data interface{}) {
	w.cs.Enter()
	it := w.alloc(fn, data)
	if w.tail == nil {
		w.head, w.tail = it, it
	} else {
		w.tail.next = it
		w.tail = it
	}
	w.cs.NotifyOne()
	w.cs.Exit()
}

// loop is the worker's OS-thread entry point: wait for work while running
// and the queue is empty, otherwise pop-and-invoke or exit.
func (w *Worker) loop(t *ctxstack.Thread) {
	for {
		w.cs.Enter()
		for w.running && w.head == nil {
			w.cs.Wait(0)
		}

		if !w.running && w.head == nil {
			w.cs.Exit()
			return
		}

		it := w.head
		w.head = it.next
		if w.head == nil {
			w.tail = nil
		}
		w.cs.Exit()

		t.SetUserData(it.data)
		it.fn(t)

		w.cs.Enter()
		w.release(it)
		w.cs.Exit()
	}
}

func (w *Worker) stop() {
	w.cs.Enter()
	w.running = false
	w.cs.NotifyOne()
	w.cs.Exit()
	w.thread.Wait(w.timeout)
}

// Config parameterizes a Pool. Only Count == MaxCount and AllowShrink ==
// false are currently supported; anything else is rejected by New.
type Config struct {
	Count         int
	MaxCount      int
	AllowShrink   bool
	OnStart       func(thread *ctxstack.Thread)
	WorkerTimeout time.Duration
}

// Pool is a fixed-size, round-robin collection of Workers.
type Pool struct {
	m       sync.Mutex
	cs      *critsec.CritSec
	workers []*Worker
	head    int
	cfg     Config
	started bool
}

// New validates cfg and creates Count Workers, none yet started.
func New(cfg Config) (*Pool, error) {
	if cfg.Count <= 0 {
		return nil, hwerr.New(hwerr.ConfigInvalid, "worker pool count must be positive")
	}
	if cfg.MaxCount != 0 && cfg.MaxCount != cfg.Count {
		return nil, hwerr.New(hwerr.ConfigInvalid, "worker pool requires count == max_count")
	}
	if cfg.AllowShrink {
		return nil, hwerr.New(hwerr.ConfigInvalid, "worker pool does not support shrinking")
	}

	p := &Pool{cs: critsec.New(), cfg: cfg}
	for i := 0; i < cfg.Count; i++ {
		p.workers = append(p.workers, newWorker(workerName(i), cfg.WorkerTimeout, cfg.OnStart))
	}
	return p, nil
}

func workerName(i int) string {
	return "worker-" + strconv.Itoa(i)
}

// Start launches every worker's thread. Each thread runs the pool's
// OnStart hook (if any) before entering its work loop. If a later
// worker's thread fails to start, earlier-started workers simply keep
// running; Delete drains them regardless.
func (p *Pool) Start() {
	p.m.Lock()
	defer p.m.Unlock()

	if p.started {
		return
	}
	p.started = true

	for _, w := range p.workers {
		w.cs.Enter()
		w.running = true
		w.cs.Exit()

		w.thread.Start()
	}
}

// Push submits fn/data for execution: rotates the pool (head → tail) for
// round-robin placement, then enqueues onto the newly-selected worker.
func (p *Pool) Push(fn Func, data interface{}) {
	p.cs.Enter()
	idx := p.head
	p.head = (p.head + 1) % len(p.workers)
	p.cs.Exit()

	p.workers[idx].push(fn, data)
}

// Delete stops every worker (drains its queue, joins its thread).
func (p *Pool) Delete() {
	for _, w := range p.workers {
		w.stop()
	}
}

// Len returns the number of workers in the pool.
func (p *Pool) Len() int {
	return len(p.workers)
}
