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

package workerpool_test

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/highway/ctxstack"
	"github.com/nabbar/highway/workerpool"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pool", func() {
	It("rejects a count/max_count mismatch", func() {
		_, err := workerpool.New(workerpool.Config{Count: 2, MaxCount: 4})
		Expect(err).To(HaveOccurred())
	})

	It("rejects AllowShrink", func() {
		_, err := workerpool.New(workerpool.Config{Count: 2, AllowShrink: true})
		Expect(err).To(HaveOccurred())
	})

	It("runs every pushed unit of work exactly once", func() {
		p, err := workerpool.New(workerpool.Config{Count: 4})
		Expect(err).NotTo(HaveOccurred())
		p.Start()
		defer p.Delete()

		const n = 200
		var counter int64
		var wg sync.WaitGroup
		wg.Add(n)

		for i := 0; i < n; i++ {
			p.Push(func(t *ctxstack.Thread) {
				atomic.AddInt64(&counter, 1)
				wg.Done()
			}, nil)
		}

		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()

		Eventually(done, 2*time.Second).Should(BeClosed())
		Expect(atomic.LoadInt64(&counter)).To(Equal(int64(n)))
	})

	It("hands each work item its submitted user data", func() {
		p, err := workerpool.New(workerpool.Config{Count: 2})
		Expect(err).NotTo(HaveOccurred())
		p.Start()
		defer p.Delete()

		result := make(chan interface{}, 1)
		p.Push(func(t *ctxstack.Thread) {
			result <- t.GetUserData()
		}, "payload")

		Eventually(result, time.Second).Should(Receive(Equal("payload")))
	})

	It("Delete drains remaining work and joins every worker", func() {
		p, err := workerpool.New(workerpool.Config{Count: 3})
		Expect(err).NotTo(HaveOccurred())
		p.Start()

		var ran int64
		for i := 0; i < 9; i++ {
			p.Push(func(t *ctxstack.Thread) {
				atomic.AddInt64(&ran, 1)
			}, nil)
		}

		p.Delete()
		Expect(atomic.LoadInt64(&ran)).To(Equal(int64(9)))
	})

	It("runs the OnStart hook once on every worker thread", func() {
		var started int32
		p, err := workerpool.New(workerpool.Config{
			Count: 2,
			OnStart: func(t *ctxstack.Thread) {
				atomic.AddInt32(&started, 1)
			},
		})
		Expect(err).NotTo(HaveOccurred())
		p.Start()
		defer p.Delete()

		Eventually(func() int32 { return atomic.LoadInt32(&started) }, time.Second).Should(Equal(int32(2)))
	})
})
