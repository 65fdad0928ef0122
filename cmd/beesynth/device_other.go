//go:build !windows || !amd64

package main

import (
	"errors"

	"github.com/HoShiMin/BeeSynth/internal/ioport"
)

var errUnsupportedPlatform = errors.New("beesynth: the PC-speaker backends are only supported on windows/amd64")

func newDriverMediatedProvider(_ []byte) (ioport.Provider, func(), error) {
	return nil, nil, errUnsupportedPlatform
}

func newIoplBackedProvider(_ []byte) (ioport.Provider, func(), error) {
	return nil, nil, errUnsupportedPlatform
}

func muteSpeaker(_ []byte) error {
	return errUnsupportedPlatform
}
