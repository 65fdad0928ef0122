//go:build !windows || !amd64

package iopl

import "github.com/HoShiMin/BeeSynth/internal/physmem"

// Patch is unavailable off windows/amd64: there is no trap frame to scan
// for, and no physmem.Mapper backend exists to scan it with.
func Patch(_ physmem.Mapper, _ Level) error {
	return ErrUnsupportedPlatform
}
