//go:build linux

package sys

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Setup creates a new io_uring instance. On success the kernel has filled
// in params.SQEntries, params.CQEntries, the two offset tables, and
// params.Features; the returned int is the ring file descriptor.
func Setup(entries uint32, params *Params) (int, error) {
	fd, _, errno := unix.Syscall(
		SYS_IO_URING_SETUP,
		uintptr(entries),
		uintptr(unsafe.Pointer(params)),
		0,
	)
	if errno != 0 {
		return 0, errors.Wrap(errno, "iouring: setup")
	}
	return int(fd), nil
}

// Enter submits toSubmit SQEs and, if flags carries GETEVENTS, waits for
// minComplete CQEs. sig, when non-nil, is applied as the thread's signal
// mask for the duration of the call (the "penter" variant).
func Enter(fd int, toSubmit, minComplete, flags uint32, sig *unix.Sigset_t) (int, error) {
	var sigPtr uintptr
	var sigSz uintptr
	if sig != nil {
		sigPtr = uintptr(unsafe.Pointer(sig))
		sigSz = unsafe.Sizeof(*sig)
	}

	n, _, errno := unix.Syscall6(
		SYS_IO_URING_ENTER,
		uintptr(fd),
		uintptr(toSubmit),
		uintptr(minComplete),
		uintptr(flags),
		sigPtr,
		sigSz,
	)
	if errno != 0 {
		return 0, errors.Wrap(errno, "iouring: enter")
	}
	return int(n), nil
}

// Register performs an io_uring_register(2) operation. arg/nrArgs are
// opcode-specific; arg may be nil for opcodes that take no payload.
func Register(fd int, opcode uint32, arg unsafe.Pointer, nrArgs uint32) error {
	_, _, errno := unix.Syscall6(
		SYS_IO_URING_REGISTER,
		uintptr(fd),
		uintptr(opcode),
		uintptr(arg),
		uintptr(nrArgs),
		0,
		0,
	)
	if errno != 0 {
		return errors.Wrapf(errno, "iouring: register opcode=%d", opcode)
	}
	return nil
}

// RegisterBuffers registers a set of fixed buffers for ReadFixed/WriteFixed.
func RegisterBuffers(fd int, iovecs []unix.Iovec) error {
	if len(iovecs) == 0 {
		return errors.New("iouring: RegisterBuffers requires at least one iovec")
	}
	return Register(fd, IORING_REGISTER_BUFFERS, unsafe.Pointer(&iovecs[0]), uint32(len(iovecs)))
}

// UnregisterBuffers removes all registered fixed buffers.
func UnregisterBuffers(fd int) error {
	return Register(fd, IORING_UNREGISTER_BUFFERS, nil, 0)
}

// RegisterFiles registers a fixed file-descriptor table.
func RegisterFiles(fd int, fds []int32) error {
	if len(fds) == 0 {
		return errors.New("iouring: RegisterFiles requires at least one fd")
	}
	return Register(fd, IORING_REGISTER_FILES, unsafe.Pointer(&fds[0]), uint32(len(fds)))
}

// UnregisterFiles removes the registered file-descriptor table.
func UnregisterFiles(fd int) error {
	return Register(fd, IORING_UNREGISTER_FILES, nil, 0)
}

// RegisterFilesUpdate replaces a slice of the registered file table
// starting at offset, per IORING_REGISTER_FILES_UPDATE.
func RegisterFilesUpdate(fd int, offset uint32, fds []int32) error {
	if len(fds) == 0 {
		return errors.New("iouring: RegisterFilesUpdate requires at least one fd")
	}
	update := FilesUpdate{
		Offset: offset,
		Fds:    uint64(uintptr(unsafe.Pointer(&fds[0]))),
	}
	return Register(fd, IORING_REGISTER_FILES_UPDATE, unsafe.Pointer(&update), uint32(len(fds)))
}

// RegisterEventfd registers an eventfd that the kernel signals whenever a
// completion is posted.
func RegisterEventfd(fd int, eventfd int) error {
	efd := int32(eventfd)
	return Register(fd, IORING_REGISTER_EVENTFD, unsafe.Pointer(&efd), 1)
}

// UnregisterEventfd removes the registered eventfd.
func UnregisterEventfd(fd int) error {
	return Register(fd, IORING_UNREGISTER_EVENTFD, nil, 0)
}

// RegisterEventfdAsync is like RegisterEventfd but only signals for
// completions of requests that went through the async worker path.
func RegisterEventfdAsync(fd int, eventfd int) error {
	efd := int32(eventfd)
	return Register(fd, IORING_REGISTER_EVENTFD_ASYNC, unsafe.Pointer(&efd), 1)
}

// RegisterPersonality registers the calling thread's current credentials
// and returns the personality id the kernel assigned.
func RegisterPersonality(fd int) (uint16, error) {
	id, _, errno := unix.Syscall6(
		SYS_IO_URING_REGISTER,
		uintptr(fd),
		uintptr(IORING_REGISTER_PERSONALITY),
		0, 0, 0, 0,
	)
	if errno != 0 {
		return 0, errors.Wrap(errno, "iouring: register personality")
	}
	return uint16(id), nil
}

// UnregisterPersonality removes a previously registered personality.
func UnregisterPersonality(fd int, id uint16) error {
	return Register(fd, IORING_UNREGISTER_PERSONALITY, nil, uint32(id))
}

// RegisterProbe queries which opcodes the running kernel supports. probe
// must be a zeroed 256-entry table; the kernel fills it in place.
func RegisterProbe(fd int, probe *Probe) error {
	return Register(fd, IORING_REGISTER_PROBE, unsafe.Pointer(probe), uint32(len(probe.Ops)))
}

// Mmap maps length bytes at offset within fd, shared/populated/read-write,
// as required for the ring and SQE mappings.
func Mmap(fd int, offset int64, length int) ([]byte, error) {
	data, err := unix.Mmap(fd, offset, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		return nil, errors.Wrapf(err, "iouring: mmap offset=%#x length=%d", offset, length)
	}
	return data, nil
}

// Munmap unmaps a previously mapped region. Errors are for the caller to
// decide whether to surface; best-effort cleanup callers should discard
// them.
func Munmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Munmap(data)
}
