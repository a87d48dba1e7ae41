//go:build linux

package inject

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type rawWriter struct {
	fd int
}

// NewWriter opens an AF_INET raw socket with IP_HDRINCL set, so the
// engine's outer IPv4 header goes onto the wire untouched. Requires
// CAP_NET_RAW.
func NewWriter() (Writer, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_RAW)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_HDRINCL, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to set IP_HDRINCL: %w", err)
	}
	return &rawWriter{fd: fd}, nil
}

func (w *rawWriter) WritePacket(pkt []byte) error {
	addr := unix.SockaddrInet4{Addr: dstAddr(pkt)}
	return unix.Sendto(w.fd, pkt, 0, &addr)
}

func (w *rawWriter) Close() error {
	return unix.Close(w.fd)
}
