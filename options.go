// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq

// Variant names an implementation of the queue contract.
type Variant string

const (
	// VariantLockTAS is the doubly-linked queue under a TAS spin lock.
	VariantLockTAS Variant = "lock-tas"
	// VariantLockCLH is the doubly-linked queue under a CLH queue lock.
	VariantLockCLH Variant = "lock-clh"
	// VariantMS is the Michael-Scott lock-free queue.
	VariantMS Variant = "ms"
	// VariantBatch is the MS queue with per-worker batch splicing.
	VariantBatch Variant = "batch"
	// VariantBackoff is the batch queue with exponential backoff.
	VariantBackoff Variant = "backoff"
)

// Variants lists every known variant name in presentation order.
func Variants() []Variant {
	return []Variant{VariantLockTAS, VariantLockCLH, VariantMS, VariantBatch, VariantBackoff}
}

// Options configures queue creation and algorithm selection.
type Options struct {
	variant   Variant
	threshold int
}

// Builder creates queues with fluent configuration.
//
// The builder selects the algorithm from a variant name, which lets
// benchmark configuration files name the implementation under test.
//
// Example:
//
//	// Lock-free MS queue (default)
//	q := linkq.Build[Request](linkq.New(linkq.VariantMS))
//
//	// Batch queue with a 32-item stage buffer
//	q := linkq.Build[Request](linkq.New(linkq.VariantBatch).BatchThreshold(32))
type Builder struct {
	opts Options
}

// New creates a queue builder for the given variant.
//
// Panics if the variant is unknown; use Variants for the accepted
// names.
func New(variant Variant) *Builder {
	switch variant {
	case VariantLockTAS, VariantLockCLH, VariantMS, VariantBatch, VariantBackoff:
	default:
		panic("linkq: unknown variant " + string(variant))
	}
	return &Builder{opts: Options{variant: variant}}
}

// BatchThreshold sets the stage buffer size that forces a splice for
// the batch and backoff variants. Zero or negative selects
// DefaultBatchThreshold. Other variants ignore it.
func (b *Builder) BatchThreshold(n int) *Builder {
	b.opts.threshold = n
	return b
}

// Build creates an Attacher[T] for the configured variant.
//
// Algorithm selection:
//
//	lock-tas → LockedQueue guarded by a TASLock
//	lock-clh → LockedQueue guarded by a CLHLock
//	ms       → MSQueue
//	batch    → BatchQueue
//	backoff  → BackoffBatchQueue
//
// Call Attach on the result once per worker goroutine; for the
// lock-based and MS variants Attach returns the queue itself.
func Build[T any](b *Builder) Attacher[T] {
	switch b.opts.variant {
	case VariantLockTAS:
		return NewLocked[T](new(TASLock))
	case VariantLockCLH:
		return NewLocked[T](NewCLH())
	case VariantMS:
		return NewMS[T]()
	case VariantBatch:
		return NewBatch[T](b.opts.threshold)
	case VariantBackoff:
		return NewBackoff[T](b.opts.threshold)
	default:
		panic("linkq: unknown variant " + string(b.opts.variant))
	}
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
