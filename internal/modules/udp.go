package modules

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"firestige.xyz/kestrel/internal/compose"
	"firestige.xyz/kestrel/internal/config"
	"firestige.xyz/kestrel/internal/core"
	"firestige.xyz/kestrel/internal/registry"
)

const (
	udpHeaderLen = 8
	maxUDPData   = compose.MaxPacketLen - compose.IPv4HeaderLen - udpHeaderLen
)

type udpComposer struct{}

func init() {
	registry.Default.MustRegister(registry.Descriptor{
		ID:          "udp",
		Name:        "UDP",
		Description: "User Datagram Protocol datagram (RFC 768)",
		Composer:    udpComposer{},
	})
}

func (udpComposer) Proto() uint8 {
	return protoUDP
}

func (udpComposer) Size(cfg *config.Config) (int, error) {
	n := cfg.UDP.DataLen
	if n < 0 || n > maxUDPData {
		return 0, fmt.Errorf("%w: udp: data_len %d out of range [0, %d]", core.ErrInvalidConfig, n, maxUDPData)
	}
	return udpHeaderLen + n, nil
}

func (udpComposer) Fill(b []byte, cfg *config.Config, net registry.Network, rng *rand.Rand) {
	c := &cfg.UDP
	binary.BigEndian.PutUint16(b[0:2], c.SrcPort.Resolve(uint16(rng.Uint32()), rng))
	binary.BigEndian.PutUint16(b[2:4], c.DstPort.Resolve(uint16(rng.Uint32()), rng))
	binary.BigEndian.PutUint16(b[4:6], uint16(len(b)))
	b[6] = 0
	b[7] = 0
	clear(b[udpHeaderLen:])
	cksum := compose.TransportChecksum(net.SrcIP, net.DstIP, protoUDP, b)
	if cksum == 0 {
		cksum = 0xFFFF // zero means "no checksum" on the wire
	}
	binary.BigEndian.PutUint16(b[6:8], cksum)
}
