// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq

import "code.hybscloud.com/iox"

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Dequeue it is the absent indicator: the queue was empty at the
// linearisation point. It is a control flow signal, not a failure; the
// caller should retry (with backoff or yield) rather than propagate it.
//
// Lock-free variants may return ErrWouldBlock even while a concurrent
// enqueue is in progress; that enqueue linearises later.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    elem, err := q.Dequeue()
//	    if err == nil {
//	        backoff.Reset()
//	        consume(elem)
//	        continue
//	    }
//	    if linkq.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    return err // Unexpected error
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
