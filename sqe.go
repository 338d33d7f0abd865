//go:build linux

package gouring

import (
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/gouring-project/gouring/internal/sys"
	"golang.org/x/sys/unix"
)

// hostIsBigEndian is evaluated once; poll event masks must always be
// stored little-endian regardless of host byte order (§9 design note).
var hostIsBigEndian = func() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 0
}()

func pollEventsLE(events uint16) uint16 {
	if hostIsBigEndian {
		return bits.ReverseBytes16(events)
	}
	return events
}

// submissionQueue is the user-space view over the kernel-shared submission
// ring: head/tail/array/flags plus the private mmap of raw entries. It
// produces entries and publishes them; it never blocks.
type submissionQueue struct {
	ringRegion *sharedRegion // ring metadata mapping (owned, or aliased under SINGLE_MMAP)
	sqesRegion *mappedRegion // exclusively owned mapping of raw SQEs

	entries uint32 // ring_entries, a power of two
	mask    uint32 // ring_entries - 1

	khead    *uint32 // kernel-owned, shared
	ktail    *uint32 // user-owned, shared
	kflags   *uint32
	kdropped *uint32
	array    []uint32
	sqes     []sys.SQE

	headShadow uint32 // private shadow of *khead
	tailShadow uint32 // private shadow of *ktail; equals sqeHead once flushed
	sqeHead    uint32 // boundary already published to the kernel
	sqeTail    uint32 // next free slot handed out by reserve()
}

func newSubmissionQueue(ringRegion *sharedRegion, sqesRegion *mappedRegion, params *sys.Params) *submissionQueue {
	base := uintptr(ringRegion.region.base())
	off := params.SQOff

	q := &submissionQueue{
		ringRegion: ringRegion,
		sqesRegion: sqesRegion,
		khead:      (*uint32)(unsafe.Pointer(base + uintptr(off.Head))),
		ktail:      (*uint32)(unsafe.Pointer(base + uintptr(off.Tail))),
		kflags:     (*uint32)(unsafe.Pointer(base + uintptr(off.Flags))),
		kdropped:   (*uint32)(unsafe.Pointer(base + uintptr(off.Dropped))),
	}
	q.entries = *(*uint32)(unsafe.Pointer(base + uintptr(off.RingEntries)))
	q.mask = *(*uint32)(unsafe.Pointer(base + uintptr(off.RingMask)))
	q.array = unsafe.Slice((*uint32)(unsafe.Pointer(base+uintptr(off.Array))), q.entries)
	q.sqes = unsafe.Slice((*sys.SQE)(sqesRegion.base()), params.SQEntries)

	q.tailShadow = atomic.LoadUint32(q.ktail)
	// Pre-fill the indirection array with the identity permutation for a
	// full ring: thereafter only the tail shadow moves and the array is
	// never rewritten again.
	for i := uint32(0); i < q.entries; i++ {
		q.array[(q.tailShadow+i)&q.mask] = i
	}
	q.headShadow = atomic.LoadUint32(q.khead)
	return q
}

// reserve returns the next free raw entry, or nil if the ring is full.
func (q *submissionQueue) reserve() *sys.SQE {
	if q.sqeTail-q.headShadow == q.entries {
		q.headShadow = atomic.LoadUint32(q.khead)
		if q.sqeTail-q.headShadow == q.entries {
			return nil
		}
	}
	idx := q.sqeTail & q.mask
	q.sqeTail++
	return &q.sqes[idx]
}

// shapeRW reserves a slot and initializes every header field common to all
// opcodes; the caller fills in the op-specific op-flags variant and
// user-data afterward.
func (q *submissionQueue) shapeRW(opcode sys.Op, fd int32, addr uint64, length uint32, offset uint64) *sys.SQE {
	sqe := q.reserve()
	if sqe == nil {
		return nil
	}
	sqe.Reset()
	sqe.Opcode = uint8(opcode)
	sqe.Fd = fd
	sqe.Off = offset
	sqe.Addr = addr
	sqe.Len = length
	return sqe
}

// flush publishes every reserved entry since the last flush and returns
// the number of entries the kernel has yet to consume.
func (q *submissionQueue) flush() uint32 {
	if q.sqeHead != q.sqeTail {
		n := q.sqeTail - q.sqeHead
		q.sqeHead = q.sqeTail
		q.tailShadow += n
		atomic.StoreUint32(q.ktail, q.tailShadow)
	}
	q.headShadow = atomic.LoadUint32(q.khead)
	return q.tailShadow - q.headShadow
}

// needWakeup reports whether the kernel's SQPOLL thread has parked and
// needs an explicit wakeup to notice newly published entries.
func (q *submissionQueue) needWakeup() bool {
	return atomic.LoadUint32(q.kflags)&sys.IORING_SQ_NEED_WAKEUP != 0
}

// dropped is the count of invalid entries the kernel discarded.
func (q *submissionQueue) dropped() uint32 {
	return atomic.LoadUint32(q.kdropped)
}

func (q *submissionQueue) close() {
	q.sqesRegion.unmap()
	q.ringRegion.release()
}

func addrOf(p unsafe.Pointer) uint64 {
	return uint64(uintptr(p))
}

func bufAddr(buf []byte) uint64 {
	if len(buf) == 0 {
		return 0
	}
	return addrOf(unsafe.Pointer(&buf[0]))
}

// OpenHow mirrors struct open_how, the extensible argument to openat2(2).
type OpenHow struct {
	Flags   uint64
	Mode    uint64
	Resolve uint64
}

// Timespec mirrors struct __kernel_timespec, the wire format Timeout,
// LinkTimeout, and their absolute-deadline variants require.
type Timespec sys.Timespec

// ---- Operation encoders (spec §4.5) ----
//
// Each Prep* method is a pure function of (args, sq) -> bool: it returns
// true if a slot was obtained and initialized, false if the ring was full.
// None of them block. Passing the reserved timeout sentinel as userData
// is rejected with false rather than corrupting internal wait bookkeeping.

func (r *Ring) checkUserData(userData uint64) bool {
	return userData != sys.ReservedUserData
}

// PrepNop prepares a no-op, useful for round-trip testing and for waking a
// parked SQPOLL thread.
func (r *Ring) PrepNop(userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_NOP, -1, 0, 0, 0)
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepReadv prepares a vectored read. iovecs must remain valid until the
// completion is reaped.
func (r *Ring) PrepReadv(fd int, iovecs []unix.Iovec, offset uint64, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	var addr uint64
	if len(iovecs) > 0 {
		addr = addrOf(unsafe.Pointer(&iovecs[0]))
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_READV, int32(fd), addr, uint32(len(iovecs)), offset)
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepWritev prepares a vectored write. iovecs must remain valid until the
// completion is reaped.
func (r *Ring) PrepWritev(fd int, iovecs []unix.Iovec, offset uint64, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	var addr uint64
	if len(iovecs) > 0 {
		addr = addrOf(unsafe.Pointer(&iovecs[0]))
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_WRITEV, int32(fd), addr, uint32(len(iovecs)), offset)
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepFsync prepares an fsync; flags may include IORING_FSYNC_DATASYNC.
func (r *Ring) PrepFsync(fd int, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_FSYNC, int32(fd), 0, 0, 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepReadFixed prepares a read against a pre-registered buffer.
func (r *Ring) PrepReadFixed(fd int, buf []byte, offset uint64, bufIndex uint16, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_READ_FIXED, int32(fd), bufAddr(buf), uint32(len(buf)), offset)
	if sqe == nil {
		return false
	}
	sqe.SetBufIndex(bufIndex)
	sqe.UserData = userData
	return true
}

// PrepWriteFixed prepares a write against a pre-registered buffer.
func (r *Ring) PrepWriteFixed(fd int, buf []byte, offset uint64, bufIndex uint16, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_WRITE_FIXED, int32(fd), bufAddr(buf), uint32(len(buf)), offset)
	if sqe == nil {
		return false
	}
	sqe.SetBufIndex(bufIndex)
	sqe.UserData = userData
	return true
}

// PrepPollAdd prepares a poll request; events is a POLL* mask (POLLIN,
// POLLOUT, ...). The mask is stored little-endian regardless of host
// order, per the pre-5.9 16-bit poll_events layout this library targets.
func (r *Ring) PrepPollAdd(fd int, events uint16, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_POLL_ADD, int32(fd), 0, 0, 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = uint32(pollEventsLE(events))
	sqe.UserData = userData
	return true
}

// PrepPollRemove prepares removal of a previously submitted poll request,
// identified by its user-data.
func (r *Ring) PrepPollRemove(targetUserData uint64, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_POLL_REMOVE, -1, targetUserData, 0, 0)
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepSyncFileRange prepares a sync_file_range.
func (r *Ring) PrepSyncFileRange(fd int, length uint32, offset uint64, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_SYNC_FILE_RANGE, int32(fd), 0, length, offset)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepSendMsg prepares a sendmsg. msg must remain valid until completion.
func (r *Ring) PrepSendMsg(fd int, msg *unix.Msghdr, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_SENDMSG, int32(fd), addrOf(unsafe.Pointer(msg)), 1, 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepRecvMsg prepares a recvmsg. msg must remain valid until completion.
func (r *Ring) PrepRecvMsg(fd int, msg *unix.Msghdr, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_RECVMSG, int32(fd), addrOf(unsafe.Pointer(msg)), 1, 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// prepTimeout is the shared implementation behind PrepTimeout and the
// internal wait_cqes(timeout) path, which must be able to use the
// reserved sentinel that PrepTimeout itself rejects.
func (r *Ring) prepTimeout(ts *sys.Timespec, count uint64, flags uint32, userData uint64) bool {
	sqe := r.sq.shapeRW(sys.IORING_OP_TIMEOUT, -1, addrOf(unsafe.Pointer(ts)), 1, count)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepTimeout prepares a timeout. count is the number of completions to
// wait for before the timeout is considered satisfied (0 = pure timer).
func (r *Ring) PrepTimeout(ts *Timespec, count uint64, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	return r.prepTimeout((*sys.Timespec)(ts), count, flags, userData)
}

// PrepTimeoutRemove prepares removal of a previously submitted timeout.
func (r *Ring) PrepTimeoutRemove(targetUserData uint64, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_TIMEOUT_REMOVE, -1, targetUserData, 0, 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepAccept prepares an accept. addr/addrLen may be nil when the peer
// address isn't needed.
func (r *Ring) PrepAccept(fd int, addr *unix.RawSockaddrAny, addrLen *uint32, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	var addrPtr, lenPtr uint64
	if addr != nil {
		addrPtr = addrOf(unsafe.Pointer(addr))
	}
	if addrLen != nil {
		lenPtr = addrOf(unsafe.Pointer(addrLen))
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_ACCEPT, int32(fd), addrPtr, 0, lenPtr)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepAsyncCancel prepares cancellation of a prior submission by its
// user-data.
func (r *Ring) PrepAsyncCancel(targetUserData uint64, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_ASYNC_CANCEL, -1, targetUserData, 0, 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepLinkTimeout prepares a linked timeout. It must be submitted
// immediately after the operation it bounds, with IOSQE_IO_LINK set on
// that operation via SetSQELink.
func (r *Ring) PrepLinkTimeout(ts *Timespec, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_LINK_TIMEOUT, -1, addrOf(unsafe.Pointer((*sys.Timespec)(ts))), 1, 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepConnect prepares a connect.
func (r *Ring) PrepConnect(fd int, addr *unix.RawSockaddrAny, addrLen uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_CONNECT, int32(fd), addrOf(unsafe.Pointer(addr)), 0, uint64(addrLen))
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepFallocate prepares a fallocate.
func (r *Ring) PrepFallocate(fd int, mode uint32, offset uint64, length uint64, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_FALLOCATE, int32(fd), length, mode, offset)
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepOpenat prepares an openat. path must be a NUL-terminated string
// that remains valid until completion.
func (r *Ring) PrepOpenat(dirfd int, path *byte, mode uint32, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_OPENAT, int32(dirfd), addrOf(unsafe.Pointer(path)), mode, 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepClose prepares a close.
func (r *Ring) PrepClose(fd int, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_CLOSE, int32(fd), 0, 0, 0)
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepFilesUpdate prepares an in-place update of a slice of the registered
// file table, starting at offset.
func (r *Ring) PrepFilesUpdate(fds []int32, offset uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	var addr uint64
	if len(fds) > 0 {
		addr = addrOf(unsafe.Pointer(&fds[0]))
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_FILES_UPDATE, -1, addr, uint32(len(fds)), uint64(offset))
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepStatx prepares a statx. path and statxbuf must remain valid until
// completion.
func (r *Ring) PrepStatx(dirfd int, path *byte, mask uint32, statxbuf unsafe.Pointer, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_STATX, int32(dirfd), addrOf(unsafe.Pointer(path)), mask, addrOf(statxbuf))
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepRead prepares a plain (non-fixed) read.
func (r *Ring) PrepRead(fd int, buf []byte, offset uint64, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_READ, int32(fd), bufAddr(buf), uint32(len(buf)), offset)
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepWrite prepares a plain (non-fixed) write.
func (r *Ring) PrepWrite(fd int, buf []byte, offset uint64, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_WRITE, int32(fd), bufAddr(buf), uint32(len(buf)), offset)
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepFadvise prepares a posix_fadvise.
func (r *Ring) PrepFadvise(fd int, offset uint64, length uint32, advice uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_FADVISE, int32(fd), 0, length, offset)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = advice
	sqe.UserData = userData
	return true
}

// PrepMadvise prepares a madvise over [mem, mem+length).
func (r *Ring) PrepMadvise(mem unsafe.Pointer, length uint32, advice uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_MADVISE, -1, addrOf(mem), length, 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = advice
	sqe.UserData = userData
	return true
}

// PrepSend prepares a send.
func (r *Ring) PrepSend(fd int, buf []byte, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_SEND, int32(fd), bufAddr(buf), uint32(len(buf)), 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepRecv prepares a recv.
func (r *Ring) PrepRecv(fd int, buf []byte, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_RECV, int32(fd), bufAddr(buf), uint32(len(buf)), 0)
	if sqe == nil {
		return false
	}
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepOpenat2 prepares an openat2. path and how must remain valid until
// completion.
func (r *Ring) PrepOpenat2(dirfd int, path *byte, how *OpenHow, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_OPENAT2, int32(dirfd), addrOf(unsafe.Pointer(path)), uint32(unsafe.Sizeof(OpenHow{})), addrOf(unsafe.Pointer(how)))
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepEpollCtl prepares an epoll_ctl. event must remain valid until
// completion (nil is fine for EPOLL_CTL_DEL).
func (r *Ring) PrepEpollCtl(epfd int, fd int, op int, event *unix.EpollEvent, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	var addr uint64
	if event != nil {
		addr = addrOf(unsafe.Pointer(event))
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_EPOLL_CTL, int32(epfd), addr, uint32(op), uint64(fd))
	if sqe == nil {
		return false
	}
	sqe.UserData = userData
	return true
}

// PrepSplice prepares a splice between two file descriptors. offIn/offOut
// of -1 mean "use the current file position" for the respective fd.
func (r *Ring) PrepSplice(fdIn int, offIn int64, fdOut int, offOut int64, nbytes uint32, flags uint32, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_SPLICE, int32(fdOut), 0, nbytes, uint64(offOut))
	if sqe == nil {
		return false
	}
	sqe.SetSpliceOffIn(uint64(offIn))
	sqe.SpliceFdIn = int32(fdIn)
	sqe.OpFlags = flags
	sqe.UserData = userData
	return true
}

// PrepProvideBuffers registers nr buffers of length bufLen, contiguous in
// memory starting at addr, as buffer ids [bid, bid+nr) in group group, for
// later use by buffer-select operations.
func (r *Ring) PrepProvideBuffers(addr unsafe.Pointer, bufLen uint32, nr uint32, group uint16, bid uint16, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_PROVIDE_BUFFERS, int32(nr), addrOf(addr), bufLen, uint64(bid))
	if sqe == nil {
		return false
	}
	sqe.SetBufGroup(group)
	sqe.UserData = userData
	return true
}

// PrepRemoveBuffers removes nr buffers previously provided in group.
func (r *Ring) PrepRemoveBuffers(nr uint32, group uint16, userData uint64) bool {
	if !r.checkUserData(userData) {
		return false
	}
	sqe := r.sq.shapeRW(sys.IORING_OP_REMOVE_BUFFERS, int32(nr), 0, 0, 0)
	if sqe == nil {
		return false
	}
	sqe.SetBufGroup(group)
	sqe.UserData = userData
	return true
}

// SetSQEFlags ORs flags into the most recently prepared entry. It must be
// called immediately after a Prep* call, before any other Prep* call.
func (r *Ring) SetSQEFlags(flags uint8) {
	if r.sq.sqeTail == r.sq.sqeHead {
		return
	}
	idx := (r.sq.sqeTail - 1) & r.sq.mask
	r.sq.sqes[idx].Flags |= flags
}

// SetSQELink marks the most recently prepared entry as linked to the next
// one submitted (IOSQE_IO_LINK): if it fails, the chain is cancelled.
func (r *Ring) SetSQELink() {
	r.SetSQEFlags(sys.IOSQE_IO_LINK)
}

// SetSQEHardlink is like SetSQELink, but the chain continues even if this
// entry fails (IOSQE_IO_HARDLINK).
func (r *Ring) SetSQEHardlink() {
	r.SetSQEFlags(sys.IOSQE_IO_HARDLINK)
}

// SetSQEAsync forces asynchronous execution of the most recently prepared
// entry (IOSQE_ASYNC), bypassing the inline fast path.
func (r *Ring) SetSQEAsync() {
	r.SetSQEFlags(sys.IOSQE_ASYNC)
}
