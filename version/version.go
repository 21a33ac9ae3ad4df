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

// Package version carries the build identity that cmd/highwayd puts on the
// optional `Server:` response header (httpresp.ServerHeader).
package version

import (
	"fmt"
	"time"
)

// Version exposes a build's identity. Implementations are immutable once
// constructed and safe for concurrent reads.
type Version interface {
	GetPackage() string
	GetRelease() string
	GetBuild() string
	GetDate() string
	GetTime() time.Time
	// GetHeader formats the identity as a single line, suitable for a
	// `Server:` response header or a startup log line.
	GetHeader() string
}

type vrs struct {
	pkg     string
	release string
	build   string
	date    string
	parsed  time.Time
}

// New constructs a Version. date is parsed as RFC3339; an unparsable or
// empty date falls back to the current time, matching the teacher
// version package's "never fail construction over a bad timestamp" stance.
func New(pkg, release, build, date string) Version {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		t = time.Now()
	}

	if pkg == "" {
		pkg = "highway"
	}

	return &vrs{pkg: pkg, release: release, build: build, date: date, parsed: t}
}

func (v *vrs) GetPackage() string { return v.pkg }
func (v *vrs) GetRelease() string { return v.release }
func (v *vrs) GetBuild() string   { return v.build }
func (v *vrs) GetTime() time.Time { return v.parsed }

func (v *vrs) GetDate() string {
	if v.date == "" {
		return v.parsed.Format(time.RFC3339)
	}
	return v.date
}

func (v *vrs) GetHeader() string {
	return fmt.Sprintf("%s/%s (build %s, %s)", v.pkg, v.release, v.build, v.GetDate())
}
