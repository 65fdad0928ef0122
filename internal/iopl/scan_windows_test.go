//go:build windows && amd64

package iopl

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFindEflagsLocatesMarkedFrame places a synthetic TrapFrame carrying
// the marker registers and a matching thread state into a byte buffer
// sized to dwarf sizeof(context), then asserts the scanner returns the
// word index exactly offsetof(TrapFrame, eflags)/4 words into the frame.
func TestFindEflagsLocatesMarkedFrame(t *testing.T) {
	state := threadState{rip: 0xDEAD_BEEF_0000_1111, rsp: 0x1000_2000_3000_4000}

	padWords := firstSearchIndex() + 64
	buf := make([]TrapFrame, 1)
	buf[0].Rax = markRax
	buf[0].Rcx = markRcx
	buf[0].Rdx = markRdx
	buf[0].R8 = markR8
	buf[0].R9 = markR9
	buf[0].Rip = state.rip
	buf[0].Rsp = state.rsp
	buf[0].SegSs = segSSUser64

	frameWords := int(unsafe.Sizeof(TrapFrame{})) / 4
	words := make([]uint32, padWords+frameWords+16)

	frameBytes := unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), unsafe.Sizeof(TrapFrame{}))
	dstBytes := unsafe.Slice((*byte)(unsafe.Pointer(&words[padWords])), len(frameBytes))
	copy(dstBytes, frameBytes)

	idx := findEflags(words, state, 1)
	require.GreaterOrEqual(t, idx, 0)

	expected := padWords + int(eflagsOffset)/4
	assert.Equal(t, expected, idx)
}

func TestFindEflagsReturnsMissOnNoMatch(t *testing.T) {
	state := threadState{rip: 1, rsp: 2}
	words := make([]uint32, firstSearchIndex()+256)
	idx := findEflags(words, state, 1)
	assert.Equal(t, -1, idx)
}
