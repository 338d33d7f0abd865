//go:build linux

package gouring

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gouring-project/gouring/internal/sys"
)

// mappedRegion is a scoped mmap window: it guarantees the base address
// never moves for its lifetime and that munmap runs at most once, even if
// release is called from multiple owners racing each other at close time.
// Errors on unmap are swallowed — it is best-effort cleanup, matching the
// "drop errors are swallowed" rule for the whole package.
type mappedRegion struct {
	data []byte
	once sync.Once
}

func mapRegion(fd int, offset int64, length int) (*mappedRegion, error) {
	data, err := sys.Mmap(fd, offset, length)
	if err != nil {
		return nil, err
	}
	return &mappedRegion{data: data}, nil
}

// base returns the region's raw base address. Accessors built on top of it
// are unsafe and bounded by the caller; base itself never changes once the
// region is constructed.
func (m *mappedRegion) base() unsafe.Pointer {
	if len(m.data) == 0 {
		return nil
	}
	return unsafe.Pointer(&m.data[0])
}

func (m *mappedRegion) unmap() {
	m.once.Do(func() {
		_ = sys.Munmap(m.data)
	})
}

// sharedRegion is a reference-counted mappedRegion. It exists for the
// IORING_FEAT_SINGLE_MMAP case, where the SQ view owns the ring-metadata
// mapping and the CQ view holds a non-owning alias of it; the mapping must
// outlive both views, so it is only unmapped once every holder has
// released it.
type sharedRegion struct {
	region *mappedRegion
	refs   int32
}

func newSharedRegion(r *mappedRegion) *sharedRegion {
	return &sharedRegion{region: r, refs: 1}
}

// acquire adds a holder and returns the same shared region, for a second
// view to alias.
func (s *sharedRegion) acquire() *sharedRegion {
	atomic.AddInt32(&s.refs, 1)
	return s
}

// release removes a holder; the underlying mapping is unmapped once the
// last holder releases it.
func (s *sharedRegion) release() {
	if atomic.AddInt32(&s.refs, -1) <= 0 {
		s.region.unmap()
	}
}
