package iopl

import "errors"

// Sentinel errors for Patch, ported from original_source/iopl/src/windows/error.rs.
// Every step of the patcher fails fatally for the call; the caller sees one
// of these wrapped with context via fmt.Errorf("%w", ...).
var (
	ErrThreadOpening       = errors.New("failed to open thread")
	ErrEnumPhysRegions     = errors.New("failed to enumerate physical regions")
	ErrNoPhysicalRegions   = errors.New("no physical regions found")
	ErrGetContext          = errors.New("failed to get thread context")
	ErrSetContext          = errors.New("failed to set thread context")
	ErrWaitFailure         = errors.New("wait failure during thread handoff")
	ErrEflagsNotFound      = errors.New("eflags not found in physical memory")
	ErrUnsupportedPlatform = errors.New("iopl patch is only supported on windows/amd64")
)
