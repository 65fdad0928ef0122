// Package driverload unpacks and registers the INPOUT-class kernel driver
// that backs internal/ioport.DriverProvider and internal/physmem's mapper,
// ported from original_source/inpout/src/loader.rs.
package driverload

import "errors"

const ServiceName = "beesynthport"

var (
	ErrOpenSCM       = errors.New("driverload: unable to open the service control manager")
	ErrUnpack        = errors.New("driverload: unable to unpack the driver")
	ErrOpenDevice    = errors.New("driverload: unable to open the device")
	ErrCreateService = errors.New("driverload: unable to create the service")
	ErrInvalidPath   = errors.New("driverload: invalid driver path")
	ErrDeleteService = errors.New("driverload: unable to delete the service")
)
