//go:build linux

package gouring

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundUpPowerOfTwo(t *testing.T) {
	cases := map[uint32]uint32{
		0:   1,
		1:   1,
		2:   2,
		3:   4,
		4:   4,
		5:   8,
		100: 128,
		128: 128,
		129: 256,
	}
	for in, want := range cases {
		assert.Equal(t, want, roundUpPowerOfTwo(in), "roundUpPowerOfTwo(%d)", in)
	}
}

func TestPollEventsLEMatchesHostEndianness(t *testing.T) {
	const events uint16 = 0x0102
	got := pollEventsLE(events)
	if hostIsBigEndian {
		assert.Equal(t, bits.ReverseBytes16(events), got)
	} else {
		assert.Equal(t, events, got)
	}
}
