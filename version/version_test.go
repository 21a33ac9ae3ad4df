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

package version_test

import (
	"time"

	"github.com/nabbar/highway/version"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Version", func() {
	It("reports the constructed fields", func() {
		v := version.New("highway", "v1.2.3", "abc123", "2024-06-01T00:00:00Z")

		Expect(v.GetPackage()).To(Equal("highway"))
		Expect(v.GetRelease()).To(Equal("v1.2.3"))
		Expect(v.GetBuild()).To(Equal("abc123"))
		Expect(v.GetDate()).To(Equal("2024-06-01T00:00:00Z"))
		Expect(v.GetTime().Year()).To(Equal(2024))
	})

	It("falls back to the current time for an unparsable date", func() {
		before := time.Now()
		v := version.New("highway", "v1.2.3", "abc123", "not-a-date")
		after := time.Now()

		Expect(v.GetTime()).To(BeTemporally(">=", before))
		Expect(v.GetTime()).To(BeTemporally("<=", after))
	})

	It("defaults an empty package name", func() {
		v := version.New("", "v1.0.0", "abc", "2024-01-01T00:00:00Z")
		Expect(v.GetPackage()).To(Equal("highway"))
	})

	It("formats a single-line header", func() {
		v := version.New("highway", "v1.2.3", "abc123", "2024-06-01T00:00:00Z")
		header := v.GetHeader()

		Expect(header).To(ContainSubstring("highway"))
		Expect(header).To(ContainSubstring("v1.2.3"))
		Expect(header).To(ContainSubstring("abc123"))
	})
})
