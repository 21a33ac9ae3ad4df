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

package socket_test

import (
	"net"
	"time"

	"github.com/nabbar/highway/socket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Listener", func() {
	It("binds an ephemeral port and accepts a connection", func() {
		ln, err := socket.Listen(socket.Config{
			IPVersion: socket.IPv4,
			Address:   "127.0.0.1:0",
		})
		Expect(err).NotTo(HaveOccurred())
		defer ln.Close()

		accepted := make(chan *socket.Conn, 1)
		go func() {
			c, aerr := ln.Accept()
			Expect(aerr).NotTo(HaveOccurred())
			accepted <- c
		}()

		cli, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
		Expect(err).NotTo(HaveOccurred())
		defer cli.Close()

		var c *socket.Conn
		Eventually(accepted, time.Second).Should(Receive(&c))
		defer c.Close()

		Expect(c.PeerAddr()).NotTo(BeEmpty())
	})

	It("unblocks a pending Accept when Close is called", func() {
		ln, err := socket.Listen(socket.Config{
			IPVersion: socket.IPv4,
			Address:   "127.0.0.1:0",
		})
		Expect(err).NotTo(HaveOccurred())

		errCh := make(chan error, 1)
		go func() {
			_, aerr := ln.Accept()
			errCh <- aerr
		}()

		time.Sleep(20 * time.Millisecond)
		Expect(ln.Close()).To(Succeed())

		Eventually(errCh, time.Second).Should(Receive(HaveOccurred()))
	})
})

var _ = Describe("Config.Validate", func() {
	It("accepts a zero-value config", func() {
		Expect(socket.Config{}.Validate()).To(Succeed())
	})

	It("rejects a negative backlog", func() {
		Expect(socket.Config{Backlog: -1}.Validate()).To(HaveOccurred())
	})

	It("rejects a negative timeout", func() {
		Expect(socket.Config{RecvTimeout: -time.Second}.Validate()).To(HaveOccurred())
	})

	It("is checked by Listen before binding", func() {
		_, err := socket.Listen(socket.Config{Backlog: -1})
		Expect(err).To(HaveOccurred())
	})
})
