//go:build linux

package gouring

import (
	"github.com/gouring-project/gouring/internal/sys"
)

// Probe describes which opcodes the running kernel implements, as
// reported by IORING_REGISTER_PROBE.
type Probe struct {
	probe sys.Probe
}

// Probe queries the kernel for supported operations.
func (r *Ring) Probe() (*Probe, error) {
	p := &Probe{}
	if err := sys.RegisterProbe(r.fd, &p.probe); err != nil {
		return nil, err
	}
	return p, nil
}

// SupportsOp reports whether the probed kernel implements op: op must be
// at or below the highest probed opcode, and the kernel must have marked
// it supported.
func (p *Probe) SupportsOp(op sys.Op) bool {
	if uint8(op) > p.probe.LastOp {
		return false
	}
	return p.probe.Ops[op].Flags&sys.IO_URING_OP_SUPPORTED != 0
}

// LastOp returns the highest opcode the kernel reported on, not
// necessarily the highest one it supports.
func (p *Probe) LastOp() sys.Op {
	return sys.Op(p.probe.LastOp)
}

// HasSingleMmap reports whether the SQ and CQ ring-metadata mappings
// alias the same kernel page (IORING_FEAT_SINGLE_MMAP).
func (r *Ring) HasSingleMmap() bool {
	return r.params.Features&sys.IORING_FEAT_SINGLE_MMAP != 0
}

// HasNoDrop reports whether the kernel holds completions that would
// otherwise overflow the CQ ring instead of dropping them
// (IORING_FEAT_NODROP). CQOverflow still reports drops that happen when
// even that reserve is exhausted.
func (r *Ring) HasNoDrop() bool {
	return r.params.Features&sys.IORING_FEAT_NODROP != 0
}

// HasSubmitStable reports whether buffers need only be stable at submit
// time, rather than until the operation completes (IORING_FEAT_SUBMIT_STABLE).
func (r *Ring) HasSubmitStable() bool {
	return r.params.Features&sys.IORING_FEAT_SUBMIT_STABLE != 0
}

// HasRWCurPos reports whether Read/Write/Readv/Writev accept -1 as an
// offset meaning "the file's current position" (IORING_FEAT_RW_CUR_POS).
func (r *Ring) HasRWCurPos() bool {
	return r.params.Features&sys.IORING_FEAT_RW_CUR_POS != 0
}

// HasCurPersonality reports whether operations without an explicit
// personality use the submitting task's credentials
// (IORING_FEAT_CUR_PERSONALITY).
func (r *Ring) HasCurPersonality() bool {
	return r.params.Features&sys.IORING_FEAT_CUR_PERSONALITY != 0
}

// HasFastPoll reports whether the kernel uses internal poll-based retries
// for normally-blocking operations on pollable files (IORING_FEAT_FAST_POLL).
func (r *Ring) HasFastPoll() bool {
	return r.params.Features&sys.IORING_FEAT_FAST_POLL != 0
}
