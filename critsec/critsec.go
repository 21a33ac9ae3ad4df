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

// Package critsec combines a mutex and a condition variable behind one
// handle, the way the worker pool and its workers coordinate queue state
// without ever holding more than one critical section at a time.
package critsec

import (
	"sync"
	"time"
)

// CritSec is a mutex+condvar pair. The zero value is not usable; use New.
type CritSec struct {
	mu sync.Mutex
	cv *sync.Cond
}

// New returns a ready-to-use CritSec.
func New() *CritSec {
	c := &CritSec{}
	c.cv = sync.NewCond(&c.mu)
	return c
}

// Enter acquires the critical section.
func (c *CritSec) Enter() {
	c.mu.Lock()
}

// Exit releases the critical section.
func (c *CritSec) Exit() {
	c.mu.Unlock()
}

// NotifyOne wakes one goroutine blocked in Wait. Must be called while the
// section is held.
func (c *CritSec) NotifyOne() {
	c.cv.Signal()
}

// NotifyAll wakes every goroutine blocked in Wait. Must be called while
// the section is held.
func (c *CritSec) NotifyAll() {
	c.cv.Broadcast()
}

// Wait blocks the calling goroutine until NotifyOne/NotifyAll is called or
// timeout elapses, whichever comes first. Must be called while the
// section is held; it is released while blocked and re-acquired before
// returning. A timeout <= 0 waits indefinitely.
//
// Per spec.md §9 (the source's timed-wait convention was inverted between
// platforms in one historical snapshot): timedOut is true iff the timeout
// elapsed, false iff woken by a notification. Spurious wakeups are
// possible; callers must re-check their predicate in a loop.
func (c *CritSec) Wait(timeout time.Duration) (timedOut bool) {
	if timeout <= 0 {
		c.cv.Wait()
		return false
	}

	done := make(chan struct{})
	timer := time.AfterFunc(timeout, func() {
		c.mu.Lock()
		close(done)
		c.cv.Broadcast()
		c.mu.Unlock()
	})

	// cv.Wait releases the section while blocked and re-acquires it
	// before returning, whether woken by the timer goroutine above or by
	// a genuine NotifyOne/NotifyAll from another caller.
	c.cv.Wait()

	timer.Stop()
	select {
	case <-done:
		return true
	default:
		return false
	}
}
