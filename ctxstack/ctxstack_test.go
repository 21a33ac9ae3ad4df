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

package ctxstack_test

import (
	"time"

	"github.com/nabbar/highway/ctxstack"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var requestIDKey int
var userIDKey int

var _ = Describe("Stack", func() {
	It("finds an inner push and reverts to the outer value after pop", func() {
		var s ctxstack.Stack

		outer := &ctxstack.Frame{Key: &requestIDKey, Value: "outer"}
		s.Push(outer)

		v, ok := s.Find(&requestIDKey)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("outer"))

		inner := &ctxstack.Frame{Key: &requestIDKey, Value: "inner"}
		s.Push(inner)

		v, ok = s.Find(&requestIDKey)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("inner"))

		popped := s.Pop()
		Expect(popped).To(Equal(inner))

		v, ok = s.Find(&requestIDKey)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("outer"))
	})

	It("does not find an unrelated key", func() {
		var s ctxstack.Stack
		s.Push(&ctxstack.Frame{Key: &requestIDKey, Value: 1})

		_, ok := s.Find(&userIDKey)
		Expect(ok).To(BeFalse())
	})

	It("Clear forgets the whole chain", func() {
		var s ctxstack.Stack
		s.Push(&ctxstack.Frame{Key: &requestIDKey, Value: 1})
		s.Clear()

		_, ok := s.Find(&requestIDKey)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Thread", func() {
	It("runs a spawned thread's function asynchronously and Wait joins it", func() {
		ran := make(chan struct{})
		th := ctxstack.New("worker", func(t *ctxstack.Thread) {
			close(ran)
		})

		th.Start()
		Expect(th.Wait(time.Second)).To(BeTrue())

		Eventually(ran).Should(BeClosed())
	})

	It("is a process-wide singleton reachable via Main", func() {
		Expect(ctxstack.Main()).To(BeIdenticalTo(ctxstack.Main()))
	})

	It("carries user data set before Start", func() {
		th := ctxstack.New("carrier", func(t *ctxstack.Thread) {})
		th.SetUserData(42)
		Expect(th.GetUserData()).To(Equal(42))
	})
})
