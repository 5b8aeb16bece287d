// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package debounce coalesces rapid edits into one pending write per key.

A [Debouncer] keeps at most one pending task per [Key]. Scheduling a task for a
key that already has one cancels the old task and restarts the quiet window, so
only the last edit inside the window is persisted. Pending tasks can be flushed
(run now) or discarded, which is what shutdown and navigation need.

Time comes from an injected [Clock], so tests drive timers by hand.
*/
package debounce

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// DefaultDelay is the quiet window used when none is configured.
const DefaultDelay = 500 * time.Millisecond

// # Clock

// Timer is a cancellable scheduled call.
type Timer interface {
	// Stop cancels the call; it reports false if the call already started.
	Stop() bool
}

// Clock schedules calls.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules on the runtime timers.
type SystemClock struct{}

// AfterFunc implements [Clock] with [time.AfterFunc].
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// # Keys

// Field names the edited attribute of an item.
type Field string

const (
	FieldRating   Field = "userRating"
	FieldChapters Field = "chaptersRead"
	FieldComments Field = "comments"
)

// Key identifies one pending write: one field of one item.
type Key struct {
	ItemID int
	Field  Field
}

// Task is the deferred write. Timer-fired tasks get [context.Background];
// flushed tasks get the caller's context.
type Task func(ctx context.Context)

// # Debouncer

type entry struct {
	task  Task
	timer Timer
	seq   uint64
}

// Debouncer holds the pending writes. It is safe for concurrent use.
type Debouncer struct {
	clock Clock
	delay time.Duration

	mu       sync.Mutex
	idle     *sync.Cond
	pending  map[Key]*entry
	inflight int
	seq      uint64
}

// New returns a debouncer with the given quiet window. A nil clock means
// [SystemClock]; a non-positive delay means [DefaultDelay].
func New(clock Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer{
		clock:   clock,
		delay:   delay,
		pending: make(map[Key]*entry),
	}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Delay returns the quiet window.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule replaces any pending task for key with task and restarts its window.
func (d *Debouncer) Schedule(key Key, task Task) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.pending[key]; ok {
		old.timer.Stop()
	}

	d.seq++
	e := &entry{task: task, seq: d.seq}
	// fire blocks on d.mu until the entry is registered below.
	e.timer = d.clock.AfterFunc(d.delay, func() { d.fire(key, e) })
	d.pending[key] = e
}

// Cancel drops the pending task for key and reports whether there was one.
func (d *Debouncer) Cancel(key Key) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.pending[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(d.pending, key)
	return true
}

// CancelItem drops every pending task of itemID and returns how many were dropped.
func (d *Debouncer) CancelItem(itemID int) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	dropped := 0
	for key, e := range d.pending {
		if key.ItemID == itemID {
			e.timer.Stop()
			delete(d.pending, key)
			dropped++
		}
	}
	return dropped
}

// Pending returns the number of scheduled tasks.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush runs every pending task now, in scheduling order, then waits for tasks
// already started by their timers. Each task runs exactly once.
//
// Flush must not be called while holding a lock the tasks need.
func (d *Debouncer) Flush(ctx context.Context) {
	for _, e := range d.drain() {
		e.task(ctx)
	}

	d.mu.Lock()
	for d.inflight > 0 {
		d.idle.Wait()
	}
	d.mu.Unlock()
}

// drain stops and removes all entries, returning them in scheduling order.
func (d *Debouncer) drain() []*entry {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := make([]*entry, 0, len(d.pending))
	for key, e := range d.pending {
		e.timer.Stop()
		entries = append(entries, e)
		delete(d.pending, key)
	}
	slices.SortFunc(entries, func(a, b *entry) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return entries
}

// fire runs e if it is still the pending entry of key.
func (d *Debouncer) fire(key Key, e *entry) {
	d.mu.Lock()
	if d.pending[key] != e {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.inflight++
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.inflight--
		if d.inflight == 0 {
			d.idle.Broadcast()
		}
		d.mu.Unlock()
	}()

	e.task(context.Background())
}
