// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sim is a synthetic server built on a linkq queue: client
// goroutines generate requests with random inter-arrival pauses and a
// worker pool dequeues them and burns CPU for a configurable service
// time. It exercises the queues under a bursty, latency-sensitive load
// shape the steady-state benchmark cannot produce.
package sim

import "time"

// Request is one unit of simulated client work.
type Request struct {
	ID         int64
	Payload    []byte
	CreatedAt  int64
	EnqueuedAt int64
	DequeuedAt int64

	poison bool
}

// NewRequest creates a data request stamped with the current time.
func NewRequest(id int64, payloadSize int) *Request {
	var payload []byte
	if payloadSize > 0 {
		payload = make([]byte, payloadSize)
	}
	return &Request{ID: id, Payload: payload, CreatedAt: time.Now().UnixNano()}
}

// PoisonRequest creates a shutdown sentinel; one is enqueued per worker
// at the end of a simulation.
func PoisonRequest() *Request {
	return &Request{ID: -1, CreatedAt: time.Now().UnixNano(), poison: true}
}

// IsPoison reports whether the request is a shutdown sentinel.
func (r *Request) IsPoison() bool { return r.poison }
