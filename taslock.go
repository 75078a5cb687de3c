// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// TASLock is a test-and-set spin lock.
//
// Acquire spins on a single shared atomic flag, so every waiter hammers
// the same cache line. It is the contention baseline: unfair, minimal
// state, no per-waiter allocation.
//
// The zero value is an unlocked TASLock.
type TASLock struct {
	state atomix.Bool
	_     padShort
}

// Acquire spins until the calling goroutine holds the lock.
func (l *TASLock) Acquire() {
	sw := spin.Wait{}
	for !l.state.CompareAndSwapAcqRel(false, true) {
		sw.Once()
	}
}

// Release transfers holdership. Must be called by the current holder.
func (l *TASLock) Release() {
	l.state.StoreRelease(false)
}
