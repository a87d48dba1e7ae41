package compose

// sum16 accumulates b as big-endian 16-bit words, padding an odd tail
// with a zero byte.
func sum16(b []byte) uint32 {
	var sum uint32
	for ; len(b) >= 2; b = b[2:] {
		sum += uint32(b[0])<<8 | uint32(b[1])
	}
	if len(b) > 0 {
		sum += uint32(b[0]) << 8
	}
	return sum
}

func fold(sum uint32) uint16 {
	for sum > 0xFFFF {
		sum = (sum >> 16) + (sum & 0xFFFF)
	}
	return ^uint16(sum)
}

// Checksum computes the RFC 1071 ones-complement checksum over b.
// Callers must zero the checksum field before computing.
func Checksum(b []byte) uint16 {
	return fold(sum16(b))
}

// TransportChecksum computes the ones-complement checksum over the IPv4
// pseudo-header followed by the transport segment, as TCP, UDP and DCCP
// mandate. The segment's checksum field must be zero on entry.
func TransportChecksum(src, dst [4]byte, proto uint8, segment []byte) uint16 {
	var pseudo [12]byte
	copy(pseudo[0:4], src[:])
	copy(pseudo[4:8], dst[:])
	pseudo[9] = proto
	pseudo[10] = byte(len(segment) >> 8)
	pseudo[11] = byte(len(segment))
	return fold(sum16(pseudo[:]) + sum16(segment))
}
