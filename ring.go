//go:build linux

package gouring

import (
	"sync/atomic"
	"unsafe"

	"github.com/gouring-project/gouring/internal/sys"
	"golang.org/x/sys/unix"
)

// Ring drives a single io_uring instance: it owns the ring file
// descriptor and the shared-memory mappings backing its submission and
// completion queue views. A Ring is safe to use from a single goroutine
// at a time, matching the spec's single-submitter concurrency model; it
// carries no internal lock.
type Ring struct {
	fd     int
	params sys.Params

	sq *submissionQueue
	cq *completionQueue

	closed atomic.Bool
}

func roundUpPowerOfTwo(n uint32) uint32 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

// newRing performs io_uring_setup and the mmap dance described in the
// domain spec: entries is rounded up to a power of two before setup, and
// the ring-metadata mapping is made once and aliased between the SQ and
// CQ views when the kernel reports IORING_FEAT_SINGLE_MMAP, or mapped
// twice otherwise.
func newRing(entries uint32, params *sys.Params) (*Ring, error) {
	entries = roundUpPowerOfTwo(entries)

	fd, err := sys.Setup(entries, params)
	if err != nil {
		return nil, err
	}

	r := &Ring{fd: fd, params: *params}

	sqRingSize := int(params.SQOff.Array + params.SQEntries*4)
	cqRingSize := int(params.CQOff.CQEs + params.CQEntries*uint32(unsafe.Sizeof(sys.CQE{})))
	singleMmap := params.Features&sys.IORING_FEAT_SINGLE_MMAP != 0

	sqMapSize := sqRingSize
	if singleMmap && cqRingSize > sqMapSize {
		sqMapSize = cqRingSize
	}

	sqRegion, err := mapRegion(fd, int64(sys.IORING_OFF_SQ_RING), sqMapSize)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	sqShared := newSharedRegion(sqRegion)

	var cqShared *sharedRegion
	if singleMmap {
		cqShared = sqShared.acquire()
	} else {
		cqRegion, err := mapRegion(fd, int64(sys.IORING_OFF_CQ_RING), cqRingSize)
		if err != nil {
			sqShared.release()
			unix.Close(fd)
			return nil, err
		}
		cqShared = newSharedRegion(cqRegion)
	}

	sqesSize := int(params.SQEntries) * int(unsafe.Sizeof(sys.SQE{}))
	sqesRegion, err := mapRegion(fd, int64(sys.IORING_OFF_SQES), sqesSize)
	if err != nil {
		sqShared.release()
		cqShared.release()
		unix.Close(fd)
		return nil, err
	}

	r.sq = newSubmissionQueue(sqShared, sqesRegion, params)
	r.cq = newCompletionQueue(cqShared, params)

	return r, nil
}

// Close releases the ring's kernel resources: the SQE mapping, the
// ring-metadata mapping(s) (unmapped once every holder has released its
// reference), and finally the ring file descriptor. It is idempotent —
// calling it more than once is a no-op after the first call. A setup that
// fails partway is unwound inside TryBuild, which then returns no Ring to
// close.
func (r *Ring) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	r.sq.close()
	r.cq.close()
	return unix.Close(r.fd)
}

// Fd returns the ring's file descriptor, e.g. for epoll integration or
// AttachWQ on another ring.
func (r *Ring) Fd() int {
	return r.fd
}

// Features returns the raw feature bitmask the kernel reported at setup.
func (r *Ring) Features() uint32 {
	return r.params.Features
}

// SQEntries returns the number of submission queue entries the kernel
// actually allocated (a power of two, possibly clamped).
func (r *Ring) SQEntries() uint32 {
	return r.sq.entries
}

// CQEntries returns the number of completion queue entries the kernel
// actually allocated.
func (r *Ring) CQEntries() uint32 {
	return r.cq.entries
}

// SQSpace reports how many more entries can be reserved before the
// submission queue is full.
func (r *Ring) SQSpace() uint32 {
	head := atomic.LoadUint32(r.sq.khead)
	return r.sq.entries - (r.sq.sqeTail - head)
}

// SQReady reports how many reserved entries have not yet been flushed to
// the kernel.
func (r *Ring) SQReady() uint32 {
	return r.sq.sqeTail - r.sq.sqeHead
}

// SQDropped reports how many submissions the kernel discarded as
// malformed (e.g. referencing an unregistered fixed buffer or file).
func (r *Ring) SQDropped() uint32 {
	return r.sq.dropped()
}

// CQReady reports how many completions are available to be reaped.
func (r *Ring) CQReady() uint32 {
	head := atomic.LoadUint32(r.cq.khead)
	tail := atomic.LoadUint32(r.cq.ktail)
	return tail - head
}

// RegisterBuffers pins bufs and registers them as fixed buffers for
// ReadFixed/WriteFixed, indexed in argument order.
func (r *Ring) RegisterBuffers(bufs [][]byte) error {
	if len(bufs) == 0 {
		return ErrNotSupported
	}
	iovecs := make([]unix.Iovec, len(bufs))
	for i, buf := range bufs {
		if len(buf) > 0 {
			iovecs[i].Base = &buf[0]
			iovecs[i].SetLen(len(buf))
		}
	}
	return sys.RegisterBuffers(r.fd, iovecs)
}

// UnregisterBuffers removes all registered fixed buffers.
func (r *Ring) UnregisterBuffers() error {
	return sys.UnregisterBuffers(r.fd)
}

// RegisterFiles registers a fixed file-descriptor table; operations may
// then reference fds by index into it, with IOSQE_FIXED_FILE set.
func (r *Ring) RegisterFiles(fds []int) error {
	if len(fds) == 0 {
		return ErrNotSupported
	}
	fds32 := make([]int32, len(fds))
	for i, fd := range fds {
		fds32[i] = int32(fd)
	}
	return sys.RegisterFiles(r.fd, fds32)
}

// UnregisterFiles removes the registered file-descriptor table.
func (r *Ring) UnregisterFiles() error {
	return sys.UnregisterFiles(r.fd)
}

// UpdateRegisteredFiles replaces a slice of the registered file table
// in-place, starting at offset, without a full unregister/register cycle.
func (r *Ring) UpdateRegisteredFiles(fds []int, offset uint32) error {
	if len(fds) == 0 {
		return ErrNotSupported
	}
	fds32 := make([]int32, len(fds))
	for i, fd := range fds {
		fds32[i] = int32(fd)
	}
	return sys.RegisterFilesUpdate(r.fd, offset, fds32)
}

// RegisterEventfd registers an eventfd the kernel signals on every posted
// completion.
func (r *Ring) RegisterEventfd(eventfd int) error {
	return sys.RegisterEventfd(r.fd, eventfd)
}

// RegisterEventfdAsync is like RegisterEventfd, but only signals for
// completions of requests that went through the async worker path.
func (r *Ring) RegisterEventfdAsync(eventfd int) error {
	return sys.RegisterEventfdAsync(r.fd, eventfd)
}

// UnregisterEventfd removes the registered eventfd.
func (r *Ring) UnregisterEventfd() error {
	return sys.UnregisterEventfd(r.fd)
}

// RegisterPersonality snapshots the calling thread's credentials and
// returns the personality id the kernel assigned. The Prep* methods do not
// set a personality on the entries they prepare.
func (r *Ring) RegisterPersonality() (uint16, error) {
	return sys.RegisterPersonality(r.fd)
}

// UnregisterPersonality removes a previously registered personality.
func (r *Ring) UnregisterPersonality(id uint16) error {
	return sys.UnregisterPersonality(r.fd, id)
}
