// Package inject drives the composed packets onto the wire: a raw socket
// writer plus the flood loop pacing it.
package inject

// Writer sends one fully-formed IPv4 packet, header included. The
// destination is read from the packet's own header.
type Writer interface {
	WritePacket(pkt []byte) error
	Close() error
}

// dstAddr extracts the IPv4 destination from a composed packet.
func dstAddr(pkt []byte) [4]byte {
	var out [4]byte
	copy(out[:], pkt[16:20])
	return out
}
