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
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/nabbar/highway/server"
	"github.com/nabbar/highway/socket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DecodeSocketConfig", func() {
	It("decodes a generic map, including a string duration", func() {
		cfg, err := server.DecodeSocketConfig(map[string]interface{}{
			"Address":     "127.0.0.1:9000",
			"Backlog":     128,
			"RecvTimeout": "5s",
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Address).To(Equal("127.0.0.1:9000"))
		Expect(cfg.Backlog).To(Equal(128))
		Expect(cfg.RecvTimeout).To(Equal(5 * time.Second))
	})

	It("rejects a negative backlog", func() {
		_, err := server.DecodeSocketConfig(map[string]interface{}{
			"Backlog": -1,
		})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("WatchConfigFile", func() {
	It("calls back with the decoded config on write", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "highway.json")

		write := func(backlog int) {
			data, _ := json.Marshal(map[string]interface{}{
				"Address": "127.0.0.1:9100",
				"Backlog": backlog,
			})
			Expect(os.WriteFile(path, data, 0o644)).To(Succeed())
		}
		write(64)

		seen := make(chan socket.Config, 4)
		rw, err := server.WatchConfigFile(path, nil, func(cfg socket.Config, err error) {
			if err == nil {
				seen <- cfg
			}
		})
		Expect(err).NotTo(HaveOccurred())
		defer rw.Stop()

		write(128)

		var cfg socket.Config
		Eventually(seen, time.Second).Should(Receive(&cfg))
		Expect(cfg.Backlog).To(Equal(128))
	})
})
