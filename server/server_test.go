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

package server_test

import (
	"net"
	"time"

	"github.com/nabbar/highway/server"
	"github.com/nabbar/highway/socket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Server", func() {
	It("is not running before Start", func() {
		s := server.New(socket.Config{IPVersion: socket.IPv4, Address: "127.0.0.1:0"}, nil)
		Expect(s.IsRunning()).To(BeFalse())
	})

	It("becomes running after Start and accepts a connection", func() {
		s := server.New(socket.Config{IPVersion: socket.IPv4, Address: "127.0.0.1:0"}, nil)
		Expect(s.Start()).To(Succeed())
		Expect(s.IsRunning()).To(BeTrue())
		defer s.Stop()

		addr := s.Listener().Addr().String()
		accepted := make(chan struct{})
		go func() {
			c, err := s.Listener().Accept()
			Expect(err).NotTo(HaveOccurred())
			c.Close()
			close(accepted)
		}()

		cli, err := net.DialTimeout("tcp", addr, time.Second)
		Expect(err).NotTo(HaveOccurred())
		defer cli.Close()

		Eventually(accepted, time.Second).Should(BeClosed())
	})

	It("Stop is idempotent and unblocks a pending Accept", func() {
		s := server.New(socket.Config{IPVersion: socket.IPv4, Address: "127.0.0.1:0"}, nil)
		Expect(s.Start()).To(Succeed())
		ln := s.Listener()

		errCh := make(chan error, 1)
		go func() {
			_, err := ln.Accept()
			errCh <- err
		}()

		time.Sleep(20 * time.Millisecond)
		Expect(s.Stop()).To(Succeed())
		Expect(s.Stop()).To(Succeed())
		Expect(s.IsRunning()).To(BeFalse())

		Eventually(errCh, time.Second).Should(Receive(HaveOccurred()))
	})

	It("refuses SetUserData once the socket exists", func() {
		s := server.New(socket.Config{IPVersion: socket.IPv4, Address: "127.0.0.1:0"}, nil)
		Expect(s.SetUserData("before")).To(Succeed())
		Expect(s.GetUserData()).To(Equal("before"))

		Expect(s.Start()).To(Succeed())
		defer s.Stop()

		Expect(s.SetUserData("after")).To(HaveOccurred())
		Expect(s.GetUserData()).To(Equal("before"))
	})
})
