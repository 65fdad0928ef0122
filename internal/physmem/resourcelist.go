package physmem

import (
	"encoding/binary"
	"fmt"
)

// Region memory-resource flag bits, from the CM_RESOURCE_MEMORY_* family.
const (
	flagReadWrite     = 0x0000
	flagReadOnly      = 0x0001
	flagWriteOnly     = 0x0002
	flagPrefetchable  = 0x0004
	flagCombinedWrite = 0x0008
	flagCacheable     = 0x0020

	flagLarge40 = 0x0200
	flagLarge48 = 0x0400
	flagLarge64 = 0x0800
)

const (
	cmResourceTypeMemory      = 3
	cmResourceTypeMemoryLarge = 7
)

// Region describes one entry of the CM_RESOURCE_LIST physical-memory map.
type Region struct {
	Beginning     uint64
	Size          uint64
	Flags         uint16
	ReadWrite     bool
	ReadOnly      bool
	WriteOnly     bool
	Prefetchable  bool
	Cacheable     bool
	WriteCombined bool
}

// parseResourceList walks a CM_RESOURCE_LIST blob field-for-field, ported
// from original_source/iopl/src/windows/phys_ranges.rs. All fields are
// little-endian, matching the packed(4) Win32 layout: each
// CM_PARTIAL_RESOURCE_DESCRIPTOR is 20 bytes (type:1, share:1, flags:2,
// start:8, size:8); each CM_FULL_RESOURCE_DESCRIPTOR header (interface
// type + bus number) is 8 bytes, followed by the partial list's own
// 8-byte header (version, revision, count) before its descriptors.
func parseResourceList(buf []byte) ([]Region, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("resource list too short")
	}

	listCount := binary.LittleEndian.Uint32(buf[0:4])
	offset := 4

	var regions []Region
	for i := uint32(0); i < listCount; i++ {
		if offset+8 > len(buf) {
			return nil, fmt.Errorf("resource list truncated at full descriptor %d", i)
		}
		offset += 8 // interface_type (4) + bus_number (4)

		if offset+8 > len(buf) {
			return nil, fmt.Errorf("resource list truncated at partial list header %d", i)
		}
		partialCount := binary.LittleEndian.Uint32(buf[offset+4 : offset+8])
		offset += 8 // version (2) + revision (2) + count (4)

		for j := uint32(0); j < partialCount; j++ {
			const partialDescriptorSize = 20
			if offset+partialDescriptorSize > len(buf) {
				return nil, fmt.Errorf("resource list truncated at partial descriptor %d/%d", i, j)
			}
			descriptor := buf[offset : offset+partialDescriptorSize]

			resType := descriptor[0]
			flags := binary.LittleEndian.Uint16(descriptor[2:4])
			start := binary.LittleEndian.Uint64(descriptor[4:12])
			rawSize := binary.LittleEndian.Uint64(descriptor[12:20])

			var size uint64
			switch resType {
			case cmResourceTypeMemory:
				size = rawSize
			case cmResourceTypeMemoryLarge:
				switch {
				case flags&flagLarge40 != 0:
					size = rawSize << 8
				case flags&flagLarge48 != 0:
					size = rawSize << 16
				case flags&flagLarge64 != 0:
					size = rawSize << 32
				}
			}

			regions = append(regions, Region{
				Beginning:     start,
				Size:          size,
				Flags:         flags,
				ReadWrite:     flags&0xFF == flagReadWrite,
				ReadOnly:      flags&flagReadOnly != 0,
				WriteOnly:     flags&flagWriteOnly != 0,
				Prefetchable:  flags&flagPrefetchable != 0,
				Cacheable:     flags&flagCacheable != 0,
				WriteCombined: flags&flagCombinedWrite != 0,
			})

			offset += partialDescriptorSize
		}
	}

	return regions, nil
}

// FilterReadWrite returns the subset of regions usable for the IOPL
// patcher's trap-frame scan.
func FilterReadWrite(regions []Region) []Region {
	var out []Region
	for _, r := range regions {
		if r.ReadWrite {
			out = append(out, r)
		}
	}
	return out
}
