/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scheduler collapses bursts of redraw requests into at most one
// render per display frame.
package scheduler

import (
	"context"
	"sync"
	"time"
)

// Coalescer runs a render function at most once per Flush, and only if
// RequestRender was called since the previous Flush. RequestRender is safe
// from any goroutine; Flush is meant for the goroutine that owns the
// rendered state.
type Coalescer struct {
	render func()

	mu       sync.Mutex
	pending  bool
	requests uint64
	renders  uint64
}

func NewCoalescer(render func()) *Coalescer { return &Coalescer{render: render} }

// RequestRender marks the next frame dirty. Calling it repeatedly before
// the frame is the same as calling it once.
func (c *Coalescer) RequestRender() {
	c.mu.Lock()
	c.pending = true
	c.requests++
	c.mu.Unlock()
}

// Pending reports whether a render has been requested but not run.
func (c *Coalescer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Flush runs the render function if a request is pending and reports
// whether it did. The flag is cleared before rendering, so requests made
// while rendering schedule another frame.
func (c *Coalescer) Flush() bool {
	c.mu.Lock()
	if !c.pending {
		c.mu.Unlock()
		return false
	}
	c.pending = false
	c.renders++
	c.mu.Unlock()
	if c.render != nil {
		c.render()
	}
	return true
}

// Stats returns the number of requests received and renders performed.
func (c *Coalescer) Stats() (requests, renders uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests, c.renders
}

// Run flushes once per tick until ctx is done or ticks is closed. exec
// decides where the flush runs; a UI toolkit passes its main-thread
// dispatcher, nil flushes on the calling goroutine.
func (c *Coalescer) Run(ctx context.Context, ticks <-chan time.Time, exec func(func())) error {
	flush := func() { c.Flush() }
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			if !c.Pending() {
				continue
			}
			if exec != nil {
				exec(flush)
			} else {
				flush()
			}
		}
	}
}

// DefaultDebounce is the quiet period after the last keystroke before a
// content edit is rendered.
const DefaultDebounce = 100 * time.Millisecond

// Debouncer calls fn once a burst of Trigger calls has been quiet for the
// delay. It is safe for concurrent use; fn runs on a timer goroutine.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Flush runs a scheduled call now instead of waiting. It reports whether
// one was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.mu.Unlock()
	d.fn()
	return true
}

// Stop cancels a scheduled call.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}
