//go:build linux

// Package gouring drives the Linux io_uring asynchronous I/O interface: it
// builds the shared-memory submission/completion rings, shapes submission
// entries for filesystem, network, polling, splice, timeout, and
// buffer-management operations, and reaps completions with
// backpressure-aware waiting. It is not an async executor and does not
// own the file descriptors its operations refer to.
package gouring

import "github.com/pkg/errors"

// Sentinel errors returned by this package. They are never combined with
// each other or with a wrapped syscall error in the same return value.
var (
	// ErrRingClosed is returned by Submit, SubmitAndWait and the WaitCQE*
	// methods after Close. The other Ring methods do not check for it.
	ErrRingClosed = errors.New("iouring: ring closed")
	// ErrNotSupported is returned by operations the running kernel does
	// not expose (e.g. toggling the CQ eventfd flag on a kernel that
	// reports a zero flags offset), and by RegisterBuffers, RegisterFiles
	// and UpdateRegisteredFiles when given an empty list.
	ErrNotSupported = errors.New("iouring: not supported by this kernel")
)
