//go:build linux

package gouring

import (
	"github.com/gouring-project/gouring/internal/sys"
)

// Builder configures a ring before it is created. Obtain one with Entries
// and finish with TryBuild; the intervening calls each toggle one setup
// flag (and, where noted, one value) in the kernel-facing parameter block.
type Builder struct {
	entries uint32
	params  sys.Params
}

// Entries starts a Builder requesting at least n submission-queue entries.
// The kernel rounds n up to a power of two; use Clamp to allow it to cap
// the request instead of failing it outright.
func Entries(n uint32) *Builder {
	return &Builder{entries: n}
}

// IOPoll enables IORING_SETUP_IOPOLL: the kernel polls for completions
// instead of using interrupts. Submitters must pass GETEVENTS on every
// enter that wants to reap, even when not otherwise waiting.
func (b *Builder) IOPoll() *Builder {
	b.params.Flags |= sys.IORING_SETUP_IOPOLL
	return b
}

// SQPoll enables IORING_SETUP_SQPOLL: a kernel thread polls the
// submission queue so that, absent a NEED_WAKEUP signal, submit() need not
// make a syscall at all.
func (b *Builder) SQPoll() *Builder {
	b.params.Flags |= sys.IORING_SETUP_SQPOLL
	return b
}

// SQPollIdle implies SQPoll and sets the poll thread's idle timeout in
// milliseconds before it parks and starts requiring wakeups.
func (b *Builder) SQPollIdle(ms uint32) *Builder {
	b.SQPoll()
	b.params.SQThreadIdle = ms
	return b
}

// SQPollCPU implies SQPoll and pins the kernel poll thread to the given
// CPU (IORING_SETUP_SQ_AFF).
func (b *Builder) SQPollCPU(cpu uint32) *Builder {
	b.SQPoll()
	b.params.Flags |= sys.IORING_SETUP_SQ_AFF
	b.params.SQThreadCPU = cpu
	return b
}

// CQSize requests a completion ring of exactly n entries rather than the
// kernel's default (usually 2x the SQ size).
func (b *Builder) CQSize(n uint32) *Builder {
	b.params.Flags |= sys.IORING_SETUP_CQSIZE
	b.params.CQEntries = n
	return b
}

// Clamp allows the kernel to clamp the requested SQ/CQ sizes to its
// maximum rather than failing setup.
func (b *Builder) Clamp() *Builder {
	b.params.Flags |= sys.IORING_SETUP_CLAMP
	return b
}

// AttachWQ shares the async workqueue of an existing ring, identified by
// its file descriptor.
func (b *Builder) AttachWQ(fd int) *Builder {
	b.params.Flags |= sys.IORING_SETUP_ATTACH_WQ
	b.params.WQFd = uint32(fd)
	return b
}

// TryBuild performs io_uring_setup and the mmap dance, returning a ready
// Ring or the first error encountered.
func (b *Builder) TryBuild() (*Ring, error) {
	return newRing(b.entries, &b.params)
}
