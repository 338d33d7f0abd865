// Package sys provides the low-level io_uring ABI: syscall numbers, wire
// structs, and flag constants, plus thin wrappers that turn kernel errors
// into Go errors. Nothing above this package should reach for unsafe
// pointer arithmetic on the ABI structs directly.
package sys

// Syscall numbers for io_uring (x86_64).
const (
	SYS_IO_URING_SETUP    = 425
	SYS_IO_URING_ENTER    = 426
	SYS_IO_URING_REGISTER = 427
)

// Op is an io_uring opcode. This is the closed, versioned enumeration of
// operations supported through Linux 5.6 (up to and including
// Splice/ProvideBuffers/RemoveBuffers); it does not grow with newer
// kernels.
type Op uint8

const (
	IORING_OP_NOP Op = iota
	IORING_OP_READV
	IORING_OP_WRITEV
	IORING_OP_FSYNC
	IORING_OP_READ_FIXED
	IORING_OP_WRITE_FIXED
	IORING_OP_POLL_ADD
	IORING_OP_POLL_REMOVE
	IORING_OP_SYNC_FILE_RANGE
	IORING_OP_SENDMSG
	IORING_OP_RECVMSG
	IORING_OP_TIMEOUT
	IORING_OP_TIMEOUT_REMOVE
	IORING_OP_ACCEPT
	IORING_OP_ASYNC_CANCEL
	IORING_OP_LINK_TIMEOUT
	IORING_OP_CONNECT
	IORING_OP_FALLOCATE
	IORING_OP_OPENAT
	IORING_OP_CLOSE
	IORING_OP_FILES_UPDATE
	IORING_OP_STATX
	IORING_OP_READ
	IORING_OP_WRITE
	IORING_OP_FADVISE
	IORING_OP_MADVISE
	IORING_OP_SEND
	IORING_OP_RECV
	IORING_OP_OPENAT2
	IORING_OP_EPOLL_CTL
	IORING_OP_SPLICE
	IORING_OP_PROVIDE_BUFFERS
	IORING_OP_REMOVE_BUFFERS

	IORING_OP_LAST // sentinel, one past the last real opcode
)

// SQE flags (IOSQE_*).
const (
	IOSQE_FIXED_FILE    uint8 = 1 << 0 // fd is an index into registered files
	IOSQE_IO_DRAIN      uint8 = 1 << 1 // issue after all previous SQEs complete
	IOSQE_IO_LINK       uint8 = 1 << 2 // link to the next SQE
	IOSQE_IO_HARDLINK   uint8 = 1 << 3 // like IO_LINK, but the chain continues on error
	IOSQE_ASYNC         uint8 = 1 << 4 // always issue asynchronously
	IOSQE_BUFFER_SELECT uint8 = 1 << 5 // select a buffer from buf_group
)

// Setup flags (IORING_SETUP_*).
const (
	IORING_SETUP_IOPOLL    uint32 = 1 << 0 // kernel polls for completions
	IORING_SETUP_SQPOLL    uint32 = 1 << 1 // kernel submission-poll thread
	IORING_SETUP_SQ_AFF    uint32 = 1 << 2 // sq_thread_cpu is valid
	IORING_SETUP_CQSIZE    uint32 = 1 << 3 // app-supplied CQ size
	IORING_SETUP_CLAMP     uint32 = 1 << 4 // clamp SQ/CQ sizes to the max
	IORING_SETUP_ATTACH_WQ uint32 = 1 << 5 // attach to an existing ring's workqueue
)

// Feature flags (IORING_FEAT_*), filled in by the kernel on setup.
const (
	IORING_FEAT_SINGLE_MMAP     uint32 = 1 << 0
	IORING_FEAT_NODROP          uint32 = 1 << 1
	IORING_FEAT_SUBMIT_STABLE   uint32 = 1 << 2
	IORING_FEAT_RW_CUR_POS      uint32 = 1 << 3
	IORING_FEAT_CUR_PERSONALITY uint32 = 1 << 4
	IORING_FEAT_FAST_POLL       uint32 = 1 << 5
)

// Enter flags (IORING_ENTER_*).
const (
	IORING_ENTER_GETEVENTS uint32 = 1 << 0
	IORING_ENTER_SQ_WAKEUP uint32 = 1 << 1
)

// Register opcodes (IORING_REGISTER_*).
const (
	IORING_REGISTER_BUFFERS       uint32 = 0
	IORING_UNREGISTER_BUFFERS     uint32 = 1
	IORING_REGISTER_FILES         uint32 = 2
	IORING_UNREGISTER_FILES       uint32 = 3
	IORING_REGISTER_EVENTFD       uint32 = 4
	IORING_UNREGISTER_EVENTFD     uint32 = 5
	IORING_REGISTER_FILES_UPDATE  uint32 = 6
	IORING_REGISTER_EVENTFD_ASYNC uint32 = 7
	IORING_REGISTER_PROBE         uint32 = 8
	IORING_REGISTER_PERSONALITY   uint32 = 9
	IORING_UNREGISTER_PERSONALITY uint32 = 10
)

// CQE flags (IORING_CQE_F_*).
const (
	IORING_CQE_F_BUFFER uint32 = 1 << 0 // upper 16 bits of flags carry a buffer id
)

// SQ ring flags (kernel -> user, read from the shared flags word).
const (
	IORING_SQ_NEED_WAKEUP uint32 = 1 << 0
	IORING_SQ_CQ_OVERFLOW uint32 = 1 << 1
)

// CQ ring flags (user-visible toggle, stored into the shared flags word).
const (
	IORING_CQ_EVENTFD_DISABLED uint32 = 1 << 0
)

// Timeout flags (IORING_TIMEOUT_*).
const (
	IORING_TIMEOUT_ABS uint32 = 1 << 0
)

// Fsync flags (IORING_FSYNC_*).
const (
	IORING_FSYNC_DATASYNC uint32 = 1 << 0
)

// Cancel flags (IORING_ASYNC_CANCEL_*).
const (
	IORING_ASYNC_CANCEL_ALL uint32 = 1 << 0
)

// Mmap offsets for the ring buffers and SQE array (passed as the offset
// argument to mmap(2) against the ring fd).
const (
	IORING_OFF_SQ_RING uint64 = 0x00000000
	IORING_OFF_CQ_RING uint64 = 0x08000000
	IORING_OFF_SQES    uint64 = 0x10000000
)

// ReservedUserData is the user-data sentinel the library reserves for
// internally-generated Timeout submissions emitted on behalf of
// wait_cqes(timeout). Callers must never set this value themselves.
const ReservedUserData uint64 = 0xFFFFFFFFFFFFFFFF

// IO_URING_OP_SUPPORTED is the bit ProbeOp.Flags sets when the running
// kernel implements that opcode.
const IO_URING_OP_SUPPORTED uint16 = 1 << 0
