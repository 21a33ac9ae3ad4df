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

// Package ctxstack implements the task-local dictionary threaded through
// filters and handlers: a named goroutine plus a linked stack of typed
// context frames rooted at that goroutine.
//
// This generalizes the teacher's map-shaped `context` package
// (github.com/nabbar/golib/context, a flat map keyed by a comparable type
// parameter) into the stack-shaped structure spec.md §4.C requires: Find
// walks from the innermost Push outward rather than looking up a flat
// map, so an inner Push can shadow an outer one without destroying it.
package ctxstack

// Key identifies a context frame. Keys are typed by address: the address
// of a package-level sentinel value serves as the key, so two distinct
// call sites never collide even if their display names match.
type Key = *int

// Frame is one entry in a context stack. Callers own a Frame's storage;
// Push only links it into the chain, it never allocates or copies.
type Frame struct {
	Key    Key
	Value  interface{}
	parent *Frame
}

// Stack is a singly-linked LIFO chain of Frames, rooted at a Thread.
// Stacks are single-thread-only: only the owning goroutine may Push, Pop,
// Find, or Clear it.
type Stack struct {
	head *Frame
}

// Push links f as the new innermost frame. f.parent is overwritten with
// the previous head.
func (s *Stack) Push(f *Frame) {
	f.parent = s.head
	s.head = f
}

// Pop removes and returns the innermost frame, or nil if the stack is
// empty.
func (s *Stack) Pop() *Frame {
	f := s.head
	if f == nil {
		return nil
	}
	s.head = f.parent
	return f
}

// Find walks the stack from innermost to outermost, returning the value
// of the first frame whose Key matches (pointer equality).
func (s *Stack) Find(key Key) (value interface{}, ok bool) {
	for f := s.head; f != nil; f = f.parent {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Clear empties the stack. Frames already popped by the caller are
// unaffected; Clear simply forgets the chain.
func (s *Stack) Clear() {
	s.head = nil
}
