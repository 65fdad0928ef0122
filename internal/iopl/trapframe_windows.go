//go:build windows && amd64

package iopl

// m128 stands in for __m128i: we only ever treat xmm storage as opaque
// bytes to preserve TrapFrame's field offsets, never read it back.
type m128 struct {
	lo uint64
	hi uint64
}

// drRegs is one member of the dr_or_shadow_stack union (ktrap_frame.rs).
type drRegs struct {
	dr0, dr1, dr2, dr3, dr6, dr7 uint64
}

// shadowStackFrame is the other member of the same union; both are 48
// bytes so the union's size is unaffected by which one we name the field.
type shadowStackFrame struct {
	shadowStackFrame uint64
	spare            [5]uint64
}

type specialDebugRegisters struct {
	debugControl         uint64
	lastBranchToRip      uint64
	lastBranchFromRip    uint64
	lastExceptionToRip   uint64
	lastExceptionFromRip uint64
}

// TrapFrame is a field-for-field port of the Windows kernel's KTRAP_FRAME,
// ported from original_source/iopl/src/windows/ktrap_frame.rs. Go has no
// union type, so each Rust union is represented here by its largest member
// (gsBaseOrGsSwap, faultAddressOrContextRecord, drOrShadowStack as drRegs,
// errorCodeOrExceptionFrame) under a single name; the scanner only ever
// needs this struct's byte layout, never the union's alternate reading.
//
// Field order and sizes must not change: the IOPL scan interprets raw
// physical memory as this type by pointer arithmetic against
// unsafe.Offsetof(TrapFrame{}, eflags), exactly mirroring the original's
// offset_of! macro.
type TrapFrame struct {
	P1Home uint64
	P2Home uint64
	P3Home uint64
	P4Home uint64
	P5     uint64

	PreviousMode    uint8
	PreviousIrql    uint8
	FaultIndicator  uint8
	ExceptionActive uint8

	Mxcsr uint32

	Rax uint64
	Rcx uint64
	Rdx uint64
	R8  uint64
	R9  uint64
	R10 uint64
	R11 uint64

	GsBaseOrGsSwap uint64

	Xmm0 m128
	Xmm1 m128
	Xmm2 m128
	Xmm3 m128
	Xmm4 m128
	Xmm5 m128

	FaultAddressOrContextRecord uint64

	DrOrShadowStack drRegs

	SpecialDebugRegisters specialDebugRegisters

	SegDs uint16
	SegEs uint16
	SegFs uint16
	SegGs uint16

	TrapFrameAddr uint64

	Rbx uint64
	Rdi uint64
	Rsi uint64

	Rbp uint64

	ErrorCodeOrExceptionFrame uint64

	Rip    uint64
	SegCs  uint16
	Fill0  uint8
	Logging uint8
	Fill1  [2]uint16
	Eflags uint32
	Fill2  uint32
	Rsp    uint64
	SegSs  uint16
	Fill3  uint16
	Fill4  uint32
}
