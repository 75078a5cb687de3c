// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq

import (
	"sync"
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// clhNode is a waiter status slot. Each waiter spins on its
// predecessor's slot only, so every spin hits a distinct cache line.
type clhNode struct {
	locked atomix.Bool
	_      padShort
}

// CLHLock is a fair, FIFO, local-spin queue lock.
//
// Waiters form an implicit list: each acquirer atomically swaps itself
// in as the tail and spins on the previous tail's locked flag. Admission
// order equals tail swap order, so the lock is FIFO. Because each waiter
// spins on memory only it caches, the lock generates far less coherence
// traffic than TASLock under contention.
//
// The classic algorithm keeps a current node and a predecessor node in
// thread-local storage and recycles the predecessor on release. Without
// thread locals, holdership state lives in plain fields of the lock
// itself: only the holder touches them, and the lock's own mutual
// exclusion guards them. Released predecessor nodes return to a
// sync.Pool, preserving the no-allocation steady state.
//
// Use NewCLH; the zero value has no sentinel and is not usable.
type CLHLock struct {
	tail atomic.Pointer[clhNode]
	pool sync.Pool

	// Holder state. Written after Acquire wins, read by Release;
	// both run inside the critical section.
	my   *clhNode
	pred *clhNode
}

// NewCLH creates a CLH lock with a fresh unlocked sentinel.
func NewCLH() *CLHLock {
	l := &CLHLock{
		pool: sync.Pool{New: func() any { return new(clhNode) }},
	}
	l.tail.Store(new(clhNode))
	return l
}

// Acquire spins until the calling goroutine holds the lock.
// Waiters are admitted in the order they swapped the tail.
func (l *CLHLock) Acquire() {
	my := l.pool.Get().(*clhNode)
	// The flag must be set before the swap publishes the node;
	// the successor spins on it the moment it observes us as pred.
	my.locked.StoreRelaxed(true)

	pred := l.tail.Swap(my)

	sw := spin.Wait{}
	for pred.locked.LoadAcquire() {
		sw.Once()
	}

	l.my, l.pred = my, pred
}

// Release transfers holdership to the next waiter, if any.
// Must be called by the current holder.
func (l *CLHLock) Release() {
	my, pred := l.my, l.pred
	// The predecessor slot is ours once we acquired; recycle it for a
	// later acquirer. Our own slot stays live until the successor stops
	// spinning on it.
	l.pool.Put(pred)
	my.locked.StoreRelease(false)
}
