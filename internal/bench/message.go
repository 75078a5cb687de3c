// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bench is the measurement harness for the linkq queue family.
//
// It carries timestamped messages through a queue under configurable
// producer/consumer populations, records per-operation and end-to-end
// timings, and persists run summaries. The package is internal: it
// exists for the qbench command and the package tests, not as API.
package bench

import "time"

// Message is the unit of work carried through a queue under benchmark.
//
// Timestamps are nanosecond wall-clock readings taken at the three
// lifecycle points; DequeuedAt-CreatedAt is the end-to-end latency.
// Messages travel as *Message so that stamping after enqueue is
// visible to the consumer side.
type Message struct {
	ID         int64
	Payload    []byte
	CreatedAt  int64
	EnqueuedAt int64
	DequeuedAt int64

	poison bool
}

// NewMessage creates a data message stamped with the current time.
// A nil payload is valid data; emptiness carries no control meaning.
func NewMessage(id int64, payload []byte) *Message {
	return &Message{ID: id, Payload: payload, CreatedAt: time.Now().UnixNano()}
}

// Poison creates a shutdown sentinel. Exactly one is enqueued per
// consumer at the end of a run; a consumer that dequeues one exits.
func Poison() *Message {
	return &Message{ID: -1, CreatedAt: time.Now().UnixNano(), poison: true}
}

// IsPoison reports whether the message is a shutdown sentinel.
// Only messages constructed by Poison are sentinels; payload contents
// never influence the answer.
func (m *Message) IsPoison() bool { return m.poison }
