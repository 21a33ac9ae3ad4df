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

// Package arena implements the linear (bump) memory allocator used to back
// per-request and per-response scratch buffers. An Arena hands out
// contiguous byte slices that remain valid until the arena is reset or
// released; it never frees individual allocations.
package arena

import (
	"github.com/nabbar/highway/internal/hwerr"
)

// Arena is a linear allocator over a single contiguous buffer.
//
// Pointers (slices) returned by Reserve are stable until the next Grow
// (dynamic arenas only) or until Reset/Release. Callers that hand out
// views into reserved memory to outside code (e.g. parsed request tokens)
// must use a fixed arena, since a fixed arena never grows and therefore
// never invalidates a previously returned slice.
type Arena struct {
	buf     []byte
	off     int
	dynamic bool
	step    int
}

// NewFixed borrows buf as the arena's backing storage. The arena never
// grows; Reserve fails with hwerr.ResourceExhausted once buf is exhausted.
func NewFixed(buf []byte) *Arena {
	return &Arena{buf: buf}
}

// NewDynamic allocates its own buffer of initialCapacity bytes. Reserve
// calls that would overflow the current buffer grow it by the smallest
// multiple of initialCapacity that fits the request.
func NewDynamic(initialCapacity int) *Arena {
	return &Arena{
		buf:     make([]byte, initialCapacity),
		dynamic: true,
		step:    initialCapacity,
	}
}

// Reserve returns a slice of exactly n contiguous bytes and advances the
// write cursor past them. The bytes are not cleared: after Reset they
// still hold whatever was written there before. On a fixed arena, or when
// growth fails, an overflowing request returns hwerr.ResourceExhausted.
func (a *Arena) Reserve(n int) ([]byte, error) {
	if n < 0 {
		return nil, hwerr.New(hwerr.ResourceExhausted, "arena: negative reservation")
	}

	if a.off+n > len(a.buf) {
		if !a.dynamic {
			return nil, hwerr.New(hwerr.ResourceExhausted, "arena: fixed capacity exceeded")
		}
		if err := a.grow(a.off + n); err != nil {
			return nil, err
		}
	}

	s := a.buf[a.off : a.off+n : a.off+n]
	a.off += n
	return s, nil
}

// grow reallocates the dynamic arena's buffer to the smallest capacity of
// the form step*k that is >= need, preserving all bytes written so far.
func (a *Arena) grow(need int) error {
	if a.step <= 0 {
		return hwerr.New(hwerr.ResourceExhausted, "arena: invalid growth step")
	}

	cap := len(a.buf)
	for cap < need {
		cap += a.step
	}

	nb := make([]byte, cap)
	copy(nb, a.buf[:a.off])
	a.buf = nb
	return nil
}

// Size returns the number of bytes currently reserved.
func (a *Arena) Size() int {
	return a.off
}

// Written returns the bytes reserved so far, as a slice into the arena's
// backing buffer. Callers must not retain it across a Reserve call that
// triggers growth on a dynamic arena.
func (a *Arena) Written() []byte {
	return a.buf[:a.off]
}

// Capacity returns the current backing buffer size.
func (a *Arena) Capacity() int {
	return len(a.buf)
}

// Reset rewinds the write cursor to zero. Retained memory is not cleared;
// callers must not rely on zeroed bytes after Reset.
func (a *Arena) Reset() {
	a.off = 0
}

// Release drops the arena's backing buffer. The arena must not be used
// after Release.
func (a *Arena) Release() {
	a.buf = nil
	a.off = 0
}

// IsDynamic reports whether the arena is allowed to grow.
func (a *Arena) IsDynamic() bool {
	return a.dynamic
}
