//go:build !windows || !amd64

package driverload

import "errors"

var ErrUnsupportedPlatform = errors.New("driverload: driver loading is only supported on windows/amd64")

// Loader is a non-functional stand-in off windows/amd64.
type Loader struct{}

// NewLoader returns a Loader whose Load always fails off-target.
func NewLoader(_ []byte, _, _ string) *Loader {
	return &Loader{}
}

// Load always fails off windows/amd64.
func (l *Loader) Load() (uintptr, error) {
	return 0, ErrUnsupportedPlatform
}
