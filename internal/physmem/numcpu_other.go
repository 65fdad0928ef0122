//go:build !windows || !amd64

package physmem

import "runtime"

// NumCPU is the off-target stand-in for the windows/amd64
// GetSystemInfo-backed count.
func NumCPU() int {
	return runtime.NumCPU()
}
