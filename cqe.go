//go:build linux

package gouring

import (
	"context"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/gouring-project/gouring/internal/sys"
	"golang.org/x/sys/unix"
)

// completionQueue is the user-space view over the kernel-shared completion
// ring. It only ever consumes: head is user-owned, tail is kernel-owned.
type completionQueue struct {
	ringRegion *sharedRegion // aliased with the SQ view's mapping under SINGLE_MMAP, else owned

	entries uint32
	mask    uint32

	khead    *uint32
	ktail    *uint32
	koverflow *uint32
	kflags   *uint32 // nil when the kernel's CQOff.Flags offset is 0 (unsupported)
	cqes     []sys.CQE
}

func newCompletionQueue(ringRegion *sharedRegion, params *sys.Params) *completionQueue {
	base := uintptr(ringRegion.region.base())
	off := params.CQOff

	q := &completionQueue{
		ringRegion: ringRegion,
		khead:      (*uint32)(unsafe.Pointer(base + uintptr(off.Head))),
		ktail:      (*uint32)(unsafe.Pointer(base + uintptr(off.Tail))),
		koverflow:  (*uint32)(unsafe.Pointer(base + uintptr(off.Overflow))),
	}
	q.entries = *(*uint32)(unsafe.Pointer(base + uintptr(off.RingEntries)))
	q.mask = *(*uint32)(unsafe.Pointer(base + uintptr(off.RingMask)))
	q.cqes = unsafe.Slice((*sys.CQE)(unsafe.Pointer(base+uintptr(off.CQEs))), params.CQEntries)
	if off.Flags != 0 {
		q.kflags = (*uint32)(unsafe.Pointer(base + uintptr(off.Flags)))
	}
	return q
}

// peek returns the oldest unconsumed completion without blocking. Entries
// carrying the library's reserved timeout sentinel are internal
// bookkeeping for wait_cqes(timeout): peek consumes and skips them rather
// than surfacing them to the caller.
func (q *completionQueue) peek() (userData uint64, res int32, flags uint32, ok bool) {
	for {
		head := atomic.LoadUint32(q.khead)
		tail := atomic.LoadUint32(q.ktail)
		if head == tail {
			return 0, 0, 0, false
		}
		cqe := &q.cqes[head&q.mask]
		if cqe.UserData == sys.ReservedUserData {
			atomic.StoreUint32(q.khead, head+1)
			continue
		}
		return cqe.UserData, cqe.Res, cqe.Flags, true
	}
}

// advance marks n completions, starting with the oldest unconsumed one, as
// seen by the application.
func (q *completionQueue) advance(n uint32) {
	head := atomic.LoadUint32(q.khead)
	atomic.StoreUint32(q.khead, head+n)
}

// overflow is the number of completions the kernel dropped because the CQ
// ring was full and IORING_FEAT_NODROP was unavailable or exhausted.
func (q *completionQueue) overflow() uint32 {
	return atomic.LoadUint32(q.koverflow)
}

func (q *completionQueue) toggleEventfd(enabled bool) error {
	if q.kflags == nil {
		return ErrNotSupported
	}
	for {
		old := atomic.LoadUint32(q.kflags)
		var next uint32
		if enabled {
			next = old &^ sys.IORING_CQ_EVENTFD_DISABLED
		} else {
			next = old | sys.IORING_CQ_EVENTFD_DISABLED
		}
		if atomic.CompareAndSwapUint32(q.kflags, old, next) {
			return nil
		}
	}
}

func (q *completionQueue) close() {
	q.ringRegion.release()
}

// PeekCQE returns the oldest unconsumed completion without blocking. The
// caller must call SeenCQE (or SeenCQEs) after processing it.
func (r *Ring) PeekCQE() (userData uint64, res int32, flags uint32, ok bool) {
	return r.cq.peek()
}

// SeenCQE marks one completion, from a prior PeekCQE/WaitCQE*, as consumed.
func (r *Ring) SeenCQE() {
	r.cq.advance(1)
}

// SeenCQEs marks n completions as consumed.
func (r *Ring) SeenCQEs(n uint32) {
	r.cq.advance(n)
}

// CQOverflow reports completions the kernel dropped because the CQ ring
// filled up. A non-zero value here means the application is not keeping up
// with PeekCQE/WaitCQE* and SeenCQE.
func (r *Ring) CQOverflow() uint32 {
	return r.cq.overflow()
}

// EnableEventfdNotifications re-enables CQE notifications on a registered
// eventfd after DisableEventfdNotifications. Returns ErrNotSupported on
// kernels that do not expose the CQ flags word.
func (r *Ring) EnableEventfdNotifications() error {
	return r.cq.toggleEventfd(true)
}

// DisableEventfdNotifications suppresses CQE notifications on a
// registered eventfd without unregistering it. Returns ErrNotSupported on
// kernels that do not expose the CQ flags word.
func (r *Ring) DisableEventfdNotifications() error {
	return r.cq.toggleEventfd(false)
}

// ForEachCQE iterates over every currently available completion, stopping
// early if fn returns false. The CQ head is advanced once, after the loop,
// past every entry fn returned true for and every reserved-sentinel entry
// skipped on the way; the entry fn returned false for stays unconsumed.
// The returned count is that number of entries.
func (r *Ring) ForEachCQE(fn func(userData uint64, res int32, flags uint32) bool) int {
	head := atomic.LoadUint32(r.cq.khead)
	tail := atomic.LoadUint32(r.cq.ktail)
	count := 0

	for h := head; h != tail; h++ {
		cqe := &r.cq.cqes[h&r.cq.mask]
		if cqe.UserData == sys.ReservedUserData {
			count++
			continue
		}
		if !fn(cqe.UserData, cqe.Res, cqe.Flags) {
			break
		}
		count++
	}

	if count > 0 {
		r.cq.advance(uint32(count))
	}
	return count
}

// DrainCQEs discards every currently available completion without
// inspecting it, returning how many were dropped.
func (r *Ring) DrainCQEs() int {
	head := atomic.LoadUint32(r.cq.khead)
	tail := atomic.LoadUint32(r.cq.ktail)
	count := int(tail - head)
	if count > 0 {
		r.cq.advance(uint32(count))
	}
	return count
}

// needEnter decides whether Submit must invoke io_uring_enter at all, and
// with which flags, given the SQPOLL/IOPOLL submission rules: a plain
// kernel needs a syscall whenever entries are pending (or always, under
// IOPOLL, since completions are reaped by polling the device, not
// interrupts); an SQPOLL kernel needs one only to wake its parked thread.
func (r *Ring) needEnter(pending uint32) (call bool, flags uint32) {
	if r.params.Flags&sys.IORING_SETUP_SQPOLL == 0 {
		if pending > 0 || r.params.Flags&sys.IORING_SETUP_IOPOLL != 0 {
			return true, 0
		}
		return false, 0
	}
	if r.sq.needWakeup() {
		return true, sys.IORING_ENTER_SQ_WAKEUP
	}
	return false, 0
}

// Submit flushes pending submissions to the kernel without waiting for any
// completions. It returns the number of entries io_uring_enter accepted or,
// when no syscall is needed, the number the kernel has yet to consume.
func (r *Ring) Submit() (uint32, error) {
	return r.submitAndWait(0, nil)
}

// SubmitAndWait flushes pending submissions and blocks until at least
// waitNr completions are available.
func (r *Ring) SubmitAndWait(waitNr uint32) (uint32, error) {
	return r.submitAndWait(waitNr, nil)
}

func (r *Ring) submitAndWait(waitNr uint32, sig *unix.Sigset_t) (uint32, error) {
	if r.closed.Load() {
		return 0, ErrRingClosed
	}
	pending := r.sq.flush()
	call, flags := r.needEnter(pending)
	if waitNr > 0 || r.params.Flags&sys.IORING_SETUP_IOPOLL != 0 {
		call = true
		flags |= sys.IORING_ENTER_GETEVENTS
	}
	if !call {
		return pending, nil
	}

	toSubmit := pending
	if r.params.Flags&sys.IORING_SETUP_SQPOLL != 0 {
		toSubmit = 0
	}
	n, err := sys.Enter(r.fd, toSubmit, waitNr, flags, sig)
	if err != nil {
		return pending, err
	}
	return uint32(n), nil
}

// WaitCQE blocks until one completion is available and returns it. The
// caller must call SeenCQE after processing it.
func (r *Ring) WaitCQE() (userData uint64, res int32, flags uint32, err error) {
	return r.WaitCQEs(1, nil, nil)
}

// WaitCQENr blocks until at least n completions are available, then
// returns the oldest one (the remainder are reaped with further PeekCQE
// calls). The caller must call SeenCQE after processing it.
func (r *Ring) WaitCQENr(n uint32) (userData uint64, res int32, flags uint32, err error) {
	return r.WaitCQEs(n, nil, nil)
}

// WaitCQETimeout blocks until one completion is available or timeout
// elapses, whichever comes first; it returns unix.ETIME on expiry.
func (r *Ring) WaitCQETimeout(timeout time.Duration) (userData uint64, res int32, flags uint32, err error) {
	return r.WaitCQEs(1, &timeout, nil)
}

// WaitCQEs is the canonical wait loop behind WaitCQE/WaitCQENr/
// WaitCQETimeout: peek, returning the oldest completion at once when one
// is ready and n is 1, or when at least n are ready; otherwise, if a
// deadline was requested, shape an internal Timeout entry carrying it
// (failing with unix.EAGAIN if the submission queue has no room to carry
// it); then repeatedly flush, invoke io_uring_enter with GETEVENTS, and
// peek again, until a user completion appears or the deadline's own CQE
// (the reserved sentinel, already filtered out by peek) fires as
// unix.ETIME. An error from io_uring_enter, EINTR included, is returned
// to the caller. sig, when non-nil, replaces the thread's signal mask for the duration
// of every enter call in the loop.
func (r *Ring) WaitCQEs(n uint32, timeout *time.Duration, sig *unix.Sigset_t) (userData uint64, res int32, flags uint32, err error) {
	if r.closed.Load() {
		return 0, 0, 0, ErrRingClosed
	}
	if n == 0 {
		n = 1
	}
	if userData, res, flags, ok := r.cq.peek(); ok && (n == 1 || r.CQReady() >= n) {
		return userData, res, flags, nil
	}

	haveDeadline := timeout != nil
	if haveDeadline {
		ts := Timespec{
			Sec:  int64(*timeout / time.Second),
			Nsec: int64(*timeout % time.Second),
		}
		if !r.prepTimeout((*sys.Timespec)(&ts), uint64(n), 0, sys.ReservedUserData) {
			return 0, 0, 0, unix.EAGAIN
		}
	}

	for {
		_, err := r.submitAndWait(n, sig)
		if err != nil {
			return 0, 0, 0, err
		}
		if userData, res, flags, ok := r.cq.peek(); ok {
			return userData, res, flags, nil
		}
		if haveDeadline {
			return 0, 0, 0, unix.ETIME
		}
	}
}

// WaitCQEContext blocks until one completion is available or ctx is
// cancelled/expires, polling on a short interval since io_uring has no
// native context integration.
func (r *Ring) WaitCQEContext(ctx context.Context) (userData uint64, res int32, flags uint32, err error) {
	if r.closed.Load() {
		return 0, 0, 0, ErrRingClosed
	}
	if userData, res, flags, ok := r.cq.peek(); ok {
		return userData, res, flags, nil
	}
	const pollInterval = 100 * time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return 0, 0, 0, ctx.Err()
		default:
		}
		userData, res, flags, err := r.WaitCQETimeout(pollInterval)
		if err == unix.ETIME {
			continue
		}
		return userData, res, flags, err
	}
}

// ResultError converts a CQE result to an error: negative results carry
// -errno, per the io_uring convention of never setting errno directly.
func ResultError(res int32) error {
	if res >= 0 {
		return nil
	}
	return unix.Errno(-res)
}
