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

// Package hwatomic is a small generic wrapper around sync/atomic.Value,
// trimmed from the teacher's atomic package down to the one operation the
// servlet core needs: a type-safe load/store of a single value shared
// between goroutines without a mutex.
package hwatomic

import (
	"sync/atomic"
)

// Value is a type-safe atomic box for T.
type Value[T any] struct {
	v atomic.Value
}

// NewValue creates a Value holding def.
func NewValue[T any](def T) *Value[T] {
	o := &Value[T]{}
	o.v.Store(box[T]{val: def})
	return o
}

type box[T any] struct {
	val T
}

// Load returns the current value.
func (o *Value[T]) Load() T {
	b, _ := o.v.Load().(box[T])
	return b.val
}

// Store sets the current value.
func (o *Value[T]) Store(val T) {
	o.v.Store(box[T]{val: val})
}

// Swap atomically stores val and returns the previous value.
func (o *Value[T]) Swap(val T) T {
	old, _ := o.v.Swap(box[T]{val: val}).(box[T])
	return old.val
}
