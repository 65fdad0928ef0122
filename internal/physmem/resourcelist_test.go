package physmem

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putDescriptor(buf []byte, resType uint8, flags uint16, start, size uint64) []byte {
	d := make([]byte, 20)
	d[0] = resType
	d[1] = 0
	binary.LittleEndian.PutUint16(d[2:4], flags)
	binary.LittleEndian.PutUint64(d[4:12], start)
	binary.LittleEndian.PutUint64(d[12:20], size)
	return append(buf, d...)
}

func TestParseResourceList(t *testing.T) {
	var buf []byte

	listCount := make([]byte, 4)
	binary.LittleEndian.PutUint32(listCount, 1)
	buf = append(buf, listCount...)

	fullHeader := make([]byte, 8) // interface_type + bus_number
	buf = append(buf, fullHeader...)

	partialHeader := make([]byte, 8)
	binary.LittleEndian.PutUint32(partialHeader[4:8], 2) // count = 2
	buf = append(buf, partialHeader...)

	buf = putDescriptor(buf, cmResourceTypeMemory, flagReadWrite, 0x1000, 0x2000)
	buf = putDescriptor(buf, cmResourceTypeMemoryLarge, flagLarge40, 0x3000, 0x10)

	regions, err := parseResourceList(buf)
	require.NoError(t, err)
	require.Len(t, regions, 2)

	assert.EqualValues(t, 0x1000, regions[0].Beginning)
	assert.EqualValues(t, 0x2000, regions[0].Size)
	assert.True(t, regions[0].ReadWrite)

	assert.EqualValues(t, 0x3000, regions[1].Beginning)
	assert.EqualValues(t, 0x10<<8, regions[1].Size)
	assert.True(t, regions[1].ReadWrite)

	rw := FilterReadWrite(regions)
	assert.Len(t, rw, 2)
}

func TestParseResourceListTruncated(t *testing.T) {
	_, err := parseResourceList([]byte{0x01, 0x00, 0x00})
	assert.Error(t, err)
}
