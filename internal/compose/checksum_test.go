package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum_KnownHeader(t *testing.T) {
	// Textbook IPv4 header with its checksum field zeroed; the correct
	// checksum is 0xB861.
	hdr := []byte{
		0x45, 0x00, 0x00, 0x73, 0x00, 0x00, 0x40, 0x00,
		0x40, 0x11, 0x00, 0x00, 0xc0, 0xa8, 0x00, 0x01,
		0xc0, 0xa8, 0x00, 0xc7,
	}
	assert.Equal(t, uint16(0xB861), Checksum(hdr))

	// With the checksum in place the ones-complement sum verifies to zero.
	hdr[10], hdr[11] = 0xB8, 0x61
	assert.Equal(t, uint16(0), Checksum(hdr))
}

func TestChecksum_OddLength(t *testing.T) {
	// The trailing byte is padded with zero, so these two must agree.
	odd := []byte{0x01, 0x02, 0x03}
	padded := []byte{0x01, 0x02, 0x03, 0x00}
	assert.Equal(t, Checksum(padded), Checksum(odd))
}

func TestChecksum_AllZero(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), Checksum(make([]byte, 8)))
}

func TestTransportChecksum_Verifies(t *testing.T) {
	src := [4]byte{192, 0, 2, 1}
	dst := [4]byte{198, 51, 100, 2}
	segment := []byte{
		0x30, 0x39, 0x00, 0x50, // ports 12345 -> 80
		0x00, 0x00, 0x00, 0x00, // checksum placeholder at [6:8] would be elsewhere for TCP; raw data here
	}

	cksum := TransportChecksum(src, dst, 6, segment)
	assert.NotZero(t, cksum)

	// Folding the checksum back into the segment makes the sum verify.
	segment[6] = byte(cksum >> 8)
	segment[7] = byte(cksum)
	assert.Equal(t, uint16(0), TransportChecksum(src, dst, 6, segment))
}
