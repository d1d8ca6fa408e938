/*
 * Copyright 2026 Fleetward Labs.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package eventbus provides an injectable, bounded in-process event buffer
// with explicit subscriptions. It is constructed once at process start and
// passed by reference to collaborators; there is no package-level bus.
package eventbus

import (
	"sync"
	"time"
)

// EventType tags what a bus event describes.
type EventType string

const (
	// EventDeviceLookup is published for every finalized device record
	// during a lookup run.
	EventDeviceLookup EventType = "device_lookup"
	// EventRunCompleted is published once per finished run.
	EventRunCompleted EventType = "run_completed"
)

// Event is a single bus entry.
type Event struct {
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
	Serial    string    `json:"serial,omitempty"`
	Source    string    `json:"source,omitempty"`
	DeviceID  string    `json:"device_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	IsError   bool      `json:"is_error,omitempty"`
	IsSkip    bool      `json:"is_skip,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Subscriber receives events synchronously on Publish. Subscribers must not
// block; slow consumers should hand off to their own goroutine.
type Subscriber func(Event)

// Bus is a bounded ring buffer of recent events plus a subscriber set.
type Bus struct {
	mu       sync.RWMutex
	ring     []Event
	next     int
	filled   bool
	capacity int
	subs     map[int]Subscriber
	nextSub  int
	now      func() time.Time
}

const defaultCapacity = 512

// New creates a Bus retaining up to capacity recent events. A non-positive
// capacity gets the default.
func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	return &Bus{
		ring:     make([]Event, capacity),
		capacity: capacity,
		subs:     make(map[int]Subscriber),
		now:      time.Now,
	}
}

// Publish stamps and stores the event, then fans it out to subscribers.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()

	if event.Timestamp.IsZero() {
		event.Timestamp = b.now()
	}

	b.ring[b.next] = event
	b.next = (b.next + 1) % b.capacity

	if b.next == 0 {
		b.filled = true
	}

	subs := make([]Subscriber, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}

	b.mu.Unlock()

	for _, sub := range subs {
		sub(event)
	}
}

// Subscribe registers a subscriber and returns its id for Unsubscribe.
func (b *Bus) Subscribe(sub Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSub
	b.nextSub++
	b.subs[id] = sub

	return id
}

// Unsubscribe removes a subscriber. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs, id)
}

// Recent returns the buffered events, oldest first.
func (b *Bus) Recent() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.filled {
		out := make([]Event, b.next)
		copy(out, b.ring[:b.next])

		return out
	}

	out := make([]Event, 0, b.capacity)
	out = append(out, b.ring[b.next:]...)
	out = append(out, b.ring[:b.next]...)

	return out
}

// Len reports how many events are currently buffered.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.filled {
		return b.capacity
	}

	return b.next
}
