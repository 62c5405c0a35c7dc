package filesystem

import (
	"fmt"

	"github.com/brettbedarf/elfshelf"
	"github.com/brettbedarf/elfshelf/internal/util"
)

// Quota tracks disk capacity against the bytes held by files in the tree.
// used + available == capacity always holds.
type Quota struct {
	capacity uint64
	used     uint64
}

func NewQuota(capacity uint64) *Quota {
	return &Quota{capacity: capacity}
}

// Reserve charges size bytes or fails with [elfshelf.ErrQuotaExceeded]
// without changing anything.
func (q *Quota) Reserve(size uint64) error {
	if size > q.Available() {
		return fmt.Errorf("need %d bytes, %d available: %w", size, q.Available(), elfshelf.ErrQuotaExceeded)
	}
	q.used += size
	return nil
}

// Release returns size bytes to the pool. Releasing more than is used
// clamps at zero.
func (q *Quota) Release(size uint64) {
	if size > q.used {
		logger := util.GetLogger("Quota.Release")
		logger.Warn().Uint64("size", size).Uint64("used", q.used).Msg("Release exceeds used bytes; clamping")
		size = q.used
	}
	q.used -= size
}

func (q *Quota) Capacity() uint64 {
	return q.capacity
}

func (q *Quota) Used() uint64 {
	return q.used
}

func (q *Quota) Available() uint64 {
	return q.capacity - q.used
}
