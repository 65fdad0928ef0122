// Package physmem enumerates and maps physical memory ranges: parsing
// the Windows CM_RESOURCE_LIST resource map and mapping/unmapping
// individual ranges through the INPOUT-class driver, for the IOPL
// patcher's trap-frame scan.
package physmem

// Mapping is a live virtual-address window onto a physical range.
// Mappings are not composed or refcounted — at most one live mapping
// per region at a time.
type Mapping interface {
	Bytes() []byte
	Unmap() error
}

// Mapper maps a physical address range into the process's address space.
type Mapper interface {
	Map(physAddr, size uint64) (Mapping, error)
}
