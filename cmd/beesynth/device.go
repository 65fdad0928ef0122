package main

import (
	"fmt"

	"github.com/HoShiMin/BeeSynth/internal/ioport"
	"github.com/HoShiMin/BeeSynth/internal/speaker"
)

// devicePath is the INPOUT-class device the driver exposes once started.
const devicePath = `\\.\beesynthport`

// driverOutputPath is where the driver's bytes are unpacked to on first
// use. Grounded on original_source/inpout/src/loader.rs, which extracts
// next to the running executable.
const driverOutputPath = `beesynthport.sys`

// calibrationMsec is the TSC waiter's wall-clock calibration fallback
// duration when invariant TSC is unavailable.
const calibrationMsec = 1000

// newSpeakerDriver brings up the port-I/O backend (direct, once IOPL is
// elevated, or driver-mediated otherwise) and returns a prepared
// speaker.Driver. driverBytes is the embedded-or-caller-supplied INPOUT
// driver image; both backends load the driver, and the bytes are only
// read when the driver has to be extracted and registered.
func newSpeakerDriver(useIopl bool, driverBytes []byte) (*speaker.Driver, func(), error) {
	if useIopl {
		provider, cleanup, err := newIoplBackedProvider(driverBytes)
		if err != nil {
			return nil, nil, fmt.Errorf("iopl backend: %w", err)
		}
		driver := speaker.NewDriver(provider)
		driver.Prepare()
		return driver, cleanup, nil
	}

	provider, cleanup, err := newDriverMediatedProvider(driverBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("driver-mediated backend: %w", err)
	}
	driver := newSpeakerDriverFromProvider(provider)
	driver.Prepare()
	return driver, cleanup, nil
}

func newSpeakerDriverFromProvider(provider ioport.Provider) *speaker.Driver {
	return speaker.NewDriver(provider)
}
