//go:build !linux

package inject

import (
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

type rawConnWriter struct {
	pc   net.PacketConn
	conn *ipv4.RawConn
}

// NewWriter opens a raw IPv4 connection via x/net. The composed header is
// re-parsed and handed to the kernel field by field, which is the portable
// equivalent of IP_HDRINCL. Requires raw socket privileges.
func NewWriter() (Writer, error) {
	pc, err := net.ListenPacket("ip4:255", "0.0.0.0")
	if err != nil {
		return nil, fmt.Errorf("failed to open raw socket: %w", err)
	}
	conn, err := ipv4.NewRawConn(pc)
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("failed to wrap raw socket: %w", err)
	}
	return &rawConnWriter{pc: pc, conn: conn}, nil
}

func (w *rawConnWriter) WritePacket(pkt []byte) error {
	hdr, err := ipv4.ParseHeader(pkt)
	if err != nil {
		return fmt.Errorf("malformed IPv4 header: %w", err)
	}
	return w.conn.WriteTo(hdr, pkt[hdr.Len:], nil)
}

func (w *rawConnWriter) Close() error {
	return w.pc.Close()
}
