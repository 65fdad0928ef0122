//go:build windows && amd64

package physmem

import (
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// GetPhysicalMemoryRanges reads and parses
// HKLM\HARDWARE\RESOURCEMAP\System Resources\Physical Memory .Translated,
// a CM_RESOURCE_LIST binary blob, into the full set of declared regions
// (read-write and otherwise).
func GetPhysicalMemoryRanges() ([]Region, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, `HARDWARE\RESOURCEMAP\System Resources\Physical Memory`, registry.QUERY_VALUE)
	if err != nil {
		return nil, fmt.Errorf("unable to open the physical memory resource map: %w", err)
	}
	defer key.Close()

	buf, _, err := key.GetBinaryValue(".Translated")
	if err != nil {
		return nil, fmt.Errorf("unable to read .Translated: %w", err)
	}

	return parseResourceList(buf)
}

// NumCPU reports the logical CPU count, used to decide the IOPL
// patcher's scan worker fan-out.
func NumCPU() int {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	return int(info.NumberOfProcessors)
}
