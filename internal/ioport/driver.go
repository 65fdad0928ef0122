//go:build windows && amd64

package ioport

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/windows"
)

// DriverProvider issues buffered IOCTL requests against an INPOUT-class
// kernel driver device, one {port, value} transaction at a time.
//
// Device type 40000 (a vendor-private range) with function codes 1..6
// covering byte/word/dword read/write, method "buffered", mirrors the
// inpoutx64 IOCTL layout this field was reverse-engineered from.
type DriverProvider struct {
	handle windows.Handle
}

const (
	deviceType          = 40000
	methodBuffered      = 0
	accessAny           = 0
	fnReadPortByte      = 1
	fnWritePortByte     = 2
)

func ctlCode(deviceType, function, method, access uint32) uint32 {
	return (deviceType << 16) | (access << 14) | (function << 2) | method
}

// NewDriverProvider opens a handle to an already-loaded INPOUT-class
// device. See internal/driverload for unpacking/registering the driver.
func NewDriverProvider(devicePath string) (*DriverProvider, error) {
	pathPtr, err := windows.UTF16PtrFromString(devicePath)
	if err != nil {
		return nil, fmt.Errorf("invalid device path %q: %w", devicePath, err)
	}
	handle, err := windows.CreateFile(
		pathPtr,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to open the device: %w", err)
	}
	return &DriverProvider{handle: handle}, nil
}

// Close releases the device handle.
func (d *DriverProvider) Close() error {
	return windows.CloseHandle(d.handle)
}

type readPortInput struct {
	PortNumber uint16
}

type readPortOutput struct {
	Value uint8
}

type writePortInput struct {
	PortNumber uint16
	Value      uint8
}

func (d *DriverProvider) ReadByte(port uint16) (uint8, bool) {
	in := readPortInput{PortNumber: port}
	inBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(inBytes, in.PortNumber)

	out := make([]byte, 1)
	var returned uint32

	ctl := ctlCode(deviceType, fnReadPortByte, methodBuffered, accessAny)
	err := windows.DeviceIoControl(d.handle, ctl, &inBytes[0], uint32(len(inBytes)), &out[0], uint32(len(out)), &returned, nil)
	if err != nil {
		return 0, false
	}
	return out[0], true
}

func (d *DriverProvider) WriteByte(port uint16, value uint8) bool {
	in := writePortInput{PortNumber: port, Value: value}
	inBytes := make([]byte, 3)
	binary.LittleEndian.PutUint16(inBytes[0:2], in.PortNumber)
	inBytes[2] = in.Value

	var returned uint32
	ctl := ctlCode(deviceType, fnWritePortByte, methodBuffered, accessAny)
	err := windows.DeviceIoControl(d.handle, ctl, &inBytes[0], uint32(len(inBytes)), nil, 0, &returned, nil)
	return err == nil
}
