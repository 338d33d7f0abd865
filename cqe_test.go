//go:build linux

package gouring

import (
	"testing"

	"github.com/gouring-project/gouring/internal/sys"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestCQEBufferIDDecoding(t *testing.T) {
	cqe := sys.CQE{
		UserData: 7,
		Res:      12,
		Flags:    (uint32(5) << 16) | sys.IORING_CQE_F_BUFFER,
	}
	id, ok := cqe.BufferID()
	assert.True(t, ok)
	assert.Equal(t, uint16(5), id)

	plain := sys.CQE{UserData: 7, Res: 12}
	_, ok = plain.BufferID()
	assert.False(t, ok)
}

func TestResultError(t *testing.T) {
	assert.NoError(t, ResultError(0))
	assert.NoError(t, ResultError(128))
	assert.Equal(t, unix.ENOENT, ResultError(-int32(unix.ENOENT)))
}
