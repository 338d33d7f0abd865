//go:build linux

package gouring

import (
	"errors"
	"testing"
	"time"

	"github.com/gouring-project/gouring/internal/sys"
	"golang.org/x/sys/unix"
)

func skipIfNoIOURing(t *testing.T) *Ring {
	t.Helper()
	r, err := Entries(8).TryBuild()
	if err != nil {
		if errors.Is(err, unix.ENOSYS) {
			t.Skip("io_uring not supported on this kernel")
		}
		if errors.Is(err, unix.EPERM) {
			t.Skip("io_uring blocked by seccomp or permissions")
		}
		t.Skipf("io_uring unavailable: %v", err)
	}
	return r
}

func TestTryBuildReportsPowerOfTwoEntries(t *testing.T) {
	r := skipIfNoIOURing(t)
	defer r.Close()

	if r.Fd() < 0 {
		t.Error("ring fd should be valid")
	}
	if r.SQEntries() == 0 || r.SQEntries()&(r.SQEntries()-1) != 0 {
		t.Errorf("SQEntries() = %d, want a nonzero power of two", r.SQEntries())
	}
	if r.CQEntries() == 0 {
		t.Error("CQEntries() should be non-zero")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	r := skipIfNoIOURing(t)

	if err := r.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close() error = %v, want nil", err)
	}
}

// TestNopRoundTrip submits a single Nop and expects exactly one matching
// completion back.
func TestNopRoundTrip(t *testing.T) {
	r := skipIfNoIOURing(t)
	defer r.Close()

	const want = uint64(42)
	if !r.PrepNop(want) {
		t.Fatal("PrepNop returned false on a fresh ring")
	}
	if _, err := r.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	userData, res, _, err := r.WaitCQE()
	if err != nil {
		t.Fatalf("WaitCQE() error = %v", err)
	}
	r.SeenCQE()

	if userData != want {
		t.Errorf("userData = %d, want %d", userData, want)
	}
	if res != 0 {
		t.Errorf("res = %d, want 0", res)
	}
}

// TestReadvDevZero reads a single zeroed byte from /dev/zero through the
// ring and confirms both the CQE result and the buffer contents.
func TestReadvDevZero(t *testing.T) {
	r := skipIfNoIOURing(t)
	defer r.Close()

	f, err := unix.Open("/dev/zero", unix.O_RDONLY, 0)
	if err != nil {
		t.Fatalf("open /dev/zero: %v", err)
	}
	defer unix.Close(f)

	buf := []byte{0xFF}
	iov := []unix.Iovec{{Base: &buf[0]}}
	iov[0].SetLen(len(buf))

	if !r.PrepReadv(f, iov, 0, 1) {
		t.Fatal("PrepReadv returned false on a fresh ring")
	}
	if _, err := r.SubmitAndWait(1); err != nil {
		t.Fatalf("SubmitAndWait() error = %v", err)
	}

	userData, res, _, err := r.WaitCQE()
	if err != nil {
		t.Fatalf("WaitCQE() error = %v", err)
	}
	r.SeenCQE()

	if userData != 1 {
		t.Errorf("userData = %d, want 1", userData)
	}
	if res != 1 {
		t.Errorf("res = %d, want 1 byte read", res)
	}
	if buf[0] != 0 {
		t.Errorf("buf[0] = %#x, want 0x00", buf[0])
	}
}

// TestWaitCQETimeoutExpires confirms that waiting on a ring with no
// pending work times out rather than blocking forever.
func TestWaitCQETimeoutExpires(t *testing.T) {
	r := skipIfNoIOURing(t)
	defer r.Close()

	_, _, _, err := r.WaitCQETimeout(20 * time.Millisecond)
	if err != unix.ETIME {
		t.Fatalf("WaitCQETimeout() error = %v, want unix.ETIME", err)
	}
}

// TestProbeReportsNop confirms the kernel reports support for the
// always-implemented Nop opcode.
func TestProbeReportsNop(t *testing.T) {
	r := skipIfNoIOURing(t)
	defer r.Close()

	p, err := r.Probe()
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if !p.SupportsOp(sys.IORING_OP_NOP) {
		t.Error("probe reports Nop unsupported, which should never happen")
	}
}

// TestSubmissionQueueFull drives a small ring to exhaustion and checks
// that the (n+1)th Prep call reports failure without touching the
// kernel, per the ring-full edge case in the domain spec.
func TestSubmissionQueueFull(t *testing.T) {
	r := skipIfNoIOURing(t)
	defer r.Close()

	entries := r.SQEntries()
	for i := uint32(0); i < entries; i++ {
		if !r.PrepNop(uint64(i)) {
			t.Fatalf("PrepNop #%d returned false before the ring was full", i)
		}
	}
	if r.PrepNop(uint64(entries)) {
		t.Fatal("PrepNop succeeded past ring capacity")
	}

	if _, err := r.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	for i := uint32(0); i < entries; i++ {
		if _, _, _, err := r.WaitCQE(); err != nil {
			t.Fatalf("WaitCQE() #%d error = %v", i, err)
		}
		r.SeenCQE()
	}
}
