//go:build windows && amd64

package main

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"

	"github.com/HoShiMin/BeeSynth/internal/driverload"
	"github.com/HoShiMin/BeeSynth/internal/ioport"
	"github.com/HoShiMin/BeeSynth/internal/iopl"
	"github.com/HoShiMin/BeeSynth/internal/physmem"
)

// ensureDriverLoaded registers and starts the INPOUT-class driver if it
// is not already running, then opens its device handle. Mirrors
// original_source/src/main.rs's InpoutDriver::new(), which always goes
// through the loader's full extract/register/open state machine.
func ensureDriverLoaded(driverBytes []byte) (windows.Handle, error) {
	loader := driverload.NewLoader(driverBytes, driverOutputPath, devicePath)
	handle, err := loader.Load()
	if err != nil {
		return 0, err
	}
	return handle, nil
}

// newDriverMediatedProvider opens the INPOUT driver and issues IOCTLs
// against it for every port access (the non-elevated §4.1 backend).
func newDriverMediatedProvider(driverBytes []byte) (ioport.Provider, func(), error) {
	if _, err := ensureDriverLoaded(driverBytes); err != nil {
		return nil, nil, fmt.Errorf("unable to load the beesynthport driver: %w", err)
	}

	provider, err := ioport.NewDriverProvider(devicePath)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open %s: %w", devicePath, err)
	}
	return provider, func() { provider.Close() }, nil
}

// newIoplBackedProvider elevates the calling thread's IOPL via the
// physical-memory trap-frame patch, then returns a direct in/out
// provider that no longer needs the driver for every sample.
func newIoplBackedProvider(driverBytes []byte) (ioport.Provider, func(), error) {
	handle, err := ensureDriverLoaded(driverBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load the beesynthport driver: %w", err)
	}
	cleanup := func() { windows.CloseHandle(handle) }

	// Pin this goroutine to the OS thread whose IOPL gets raised, so the
	// direct provider keeps running on that thread after Patch returns.
	runtime.LockOSThread()
	mapper := physmem.NewDriverMapper(handle)
	if err := iopl.Patch(mapper, iopl.Ring3); err != nil {
		runtime.UnlockOSThread()
		cleanup()
		return nil, nil, fmt.Errorf("unable to patch iopl: %w", err)
	}

	return ioport.NewDirectProvider(), cleanup, nil
}

// muteSpeaker briefly brings up a driver-mediated beeper and silences it,
// used both for the no-args invocation and the Ctrl-C handler.
func muteSpeaker(driverBytes []byte) error {
	provider, cleanup, err := newDriverMediatedProvider(driverBytes)
	if err != nil {
		return err
	}
	defer cleanup()

	driver := newSpeakerDriverFromProvider(provider)
	driver.Prepare()
	driver.Mute()
	return nil
}
