//go:build windows && amd64

package iopl

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	contextAMD64          = 0x10_0000
	contextControl        = contextAMD64 | 0x0000_0001
	contextInteger        = contextAMD64 | 0x0000_0002
	contextSegments       = contextAMD64 | 0x0000_0004
	contextFloatingPoint  = contextAMD64 | 0x0000_0008
	contextDebugRegisters = contextAMD64 | 0x0000_0010
	contextAll            = contextControl | contextInteger | contextSegments | contextFloatingPoint | contextDebugRegisters
)

const (
	markRax = 0x1EE7C0DE
	markRcx = 0xC0FFEE
	markRdx = 0xCACA0
	markR8  = 0x7EA
	markR9  = 0xFACADE

	segSSUser64 = 0x2b
)

// m128a is one XMM/vector save slot, 16 bytes.
type m128a struct {
	Low  uint64
	High int64
}

// context is a field-accurate port of the amd64 CONTEXT struct from
// winnt.h (DECLSPEC_ALIGN(16)); it is the argument GetThreadContext and
// SetThreadContext fill and consume. We only ever read/write the general
// purpose registers, EFlags and the segment selectors; the floating-point
// and vector areas are carried as opaque bytes.
type context struct {
	P1Home, P2Home, P3Home, P4Home, P5Home, P6Home uint64

	ContextFlags uint32
	MxCsr        uint32

	SegCs, SegDs, SegEs, SegFs, SegGs, SegSs uint16
	EFlags                                   uint32

	Dr0, Dr1, Dr2, Dr3, Dr6, Dr7 uint64

	Rax, Rcx, Rdx, Rbx uint64
	Rsp, Rbp           uint64
	Rsi, Rdi           uint64
	R8, R9, R10, R11   uint64
	R12, R13, R14, R15 uint64

	Rip uint64

	FltSave [512]byte // XMM_SAVE_AREA32, opaque

	VectorRegister [26]m128a
	VectorControl  uint64

	DebugControl         uint64
	LastBranchToRip      uint64
	LastBranchFromRip    uint64
	LastExceptionToRip   uint64
	LastExceptionFromRip uint64
}

var (
	modKernel32          = windows.NewLazySystemDLL("kernel32.dll")
	procGetThreadContext = modKernel32.NewProc("GetThreadContext")
	procSetThreadContext = modKernel32.NewProc("SetThreadContext")
)

func getThreadContext(handle windows.Handle, ctx *context) error {
	ctx.ContextFlags = contextAll
	r1, _, err := procGetThreadContext.Call(uintptr(handle), uintptr(unsafe.Pointer(ctx)))
	if r1 == 0 {
		return err
	}
	return nil
}

func setThreadContext(handle windows.Handle, ctx *context) error {
	r1, _, err := procSetThreadContext.Call(uintptr(handle), uintptr(unsafe.Pointer(ctx)))
	if r1 == 0 {
		return err
	}
	return nil
}

// threadState is the minimal slice of context the scanner needs to match
// a candidate trap frame against: rip, rsp, matching SPEC scenario 5.
type threadState struct {
	rip uint64
	rsp uint64
}
