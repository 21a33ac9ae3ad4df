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

package ctxstack

import (
	"fmt"
	"sync"
	"time"

	"github.com/nabbar/highway/internal/hwatomic"
)

// DefaultWaitTimeout is the join timeout Wait uses when called with 0.
const DefaultWaitTimeout = 30 * time.Second

// Func is the entry point a Thread runs.
type Func func(t *Thread)

// Thread wraps a goroutine with a name, a user-data slot, and its own
// context Stack.
type Thread struct {
	Stack

	name     string
	fn       Func
	isMain   bool
	userData hwatomic.Value[interface{}]

	once sync.Once
	done chan struct{}
}

var mainThread = &Thread{name: "main", isMain: true, done: make(chan struct{})}

// Main returns the process-wide main-thread singleton. Starting it runs
// its function inline on the caller instead of spawning a goroutine.
func Main() *Thread {
	return mainThread
}

// New creates a Thread that will run fn when Start is called.
func New(name string, fn Func) *Thread {
	return &Thread{name: name, fn: fn, done: make(chan struct{})}
}

// Name returns the thread's name.
func (t *Thread) Name() string {
	return t.name
}

// SetUserData stores a value retrievable with GetUserData.
func (t *Thread) SetUserData(v interface{}) {
	t.userData.Store(v)
}

// GetUserData retrieves the value set by SetUserData, or nil.
func (t *Thread) GetUserData() interface{} {
	return t.userData.Load()
}

// Start runs the thread's function. For the main-thread singleton this
// runs fn inline on the calling goroutine and blocks until it returns;
// for any other Thread it spawns a goroutine and returns immediately.
func (t *Thread) Start() {
	if t.fn == nil {
		close(t.done)
		return
	}

	if t.isMain {
		defer t.markDone()
		t.fn(t)
		return
	}

	go func() {
		defer t.markDone()
		t.fn(t)
	}()
}

func (t *Thread) markDone() {
	t.once.Do(func() { close(t.done) })
}

// Wait blocks until the thread's function has returned or timeout
// elapses (0 uses DefaultWaitTimeout). It returns true if the thread
// finished before the timeout.
func (t *Thread) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	select {
	case <-t.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Delete waits for the thread to finish (using DefaultWaitTimeout) and
// releases its context stack.
func (t *Thread) Delete() {
	t.Wait(0)
	t.Clear()
}

func (t *Thread) String() string {
	return fmt.Sprintf("thread(%s)", t.name)
}
