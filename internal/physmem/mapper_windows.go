//go:build windows && amd64

package physmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	ioctlDeviceType = 40000
	funcMapPhysicalMemory   = 7
	funcUnmapPhysicalMemory = 8
)

func ctlCode(function uint32) uint32 {
	return (ioctlDeviceType << 16) | (function << 2)
}

// DriverMapper maps physical memory through an already-open INPOUT-class
// device handle, mirroring original_source/inpout/src/inpout_impl.rs's
// map_physical_memory / unmap_physical_memory IOCTLs.
type DriverMapper struct {
	handle windows.Handle
}

// NewDriverMapper wraps an open device handle as a Mapper.
func NewDriverMapper(handle windows.Handle) *DriverMapper {
	return &DriverMapper{handle: handle}
}

type mapRequest struct {
	PhysAddress uint64
	Size        uint64
}

type mapResponse struct {
	MappedAddress uintptr
}

func (m *DriverMapper) Map(physAddr, size uint64) (Mapping, error) {
	req := mapRequest{PhysAddress: physAddr, Size: size}
	var resp mapResponse
	var returned uint32

	ctl := ctlCode(funcMapPhysicalMemory)
	err := windows.DeviceIoControl(
		m.handle, ctl,
		(*byte)(unsafe.Pointer(&req)), uint32(unsafe.Sizeof(req)),
		(*byte)(unsafe.Pointer(&resp)), uint32(unsafe.Sizeof(resp)),
		&returned, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to map physical memory at %#x (%d bytes): %w", physAddr, size, err)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(resp.MappedAddress)), size)
	return &driverMapping{mapper: m, addr: resp.MappedAddress, data: data}, nil
}

type driverMapping struct {
	mapper *DriverMapper
	addr   uintptr
	data   []byte
}

func (d *driverMapping) Bytes() []byte { return d.data }

func (d *driverMapping) Unmap() error {
	req := struct{ MappedAddress uintptr }{MappedAddress: d.addr}
	var returned uint32
	ctl := ctlCode(funcUnmapPhysicalMemory)
	return windows.DeviceIoControl(
		d.mapper.handle, ctl,
		(*byte)(unsafe.Pointer(&req)), uint32(unsafe.Sizeof(req)),
		nil, 0,
		&returned, nil,
	)
}
