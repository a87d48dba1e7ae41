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
	tcpHeaderLen     = 20 // no options
	defaultTCPWindow = 8192
)

type tcpComposer struct{}

func init() {
	registry.Default.MustRegister(registry.Descriptor{
		ID:          "tcp",
		Name:        "TCP",
		Description: "Transmission Control Protocol segment (RFC 9293)",
		Composer:    tcpComposer{},
	})
}

func (tcpComposer) Proto() uint8 {
	return protoTCP
}

func (tcpComposer) Size(cfg *config.Config) (int, error) {
	if _, err := config.ParseTCPFlags(cfg.TCP.Flags); err != nil {
		return 0, fmt.Errorf("%w: tcp: %v", core.ErrInvalidConfig, err)
	}
	return tcpHeaderLen, nil
}

func (tcpComposer) Fill(b []byte, cfg *config.Config, net registry.Network, rng *rand.Rand) {
	c := &cfg.TCP
	binary.BigEndian.PutUint16(b[0:2], c.SrcPort.Resolve(uint16(rng.Uint32()), rng))
	binary.BigEndian.PutUint16(b[2:4], c.DstPort.Resolve(uint16(rng.Uint32()), rng))
	binary.BigEndian.PutUint32(b[4:8], c.Seq.Resolve(rng.Uint32(), rng))
	binary.BigEndian.PutUint32(b[8:12], c.Ack.Resolve(0, rng))
	b[12] = (tcpHeaderLen / 4) << 4 // data offset in 32-bit words
	flags, _ := config.ParseTCPFlags(c.Flags)
	b[13] = flags
	binary.BigEndian.PutUint16(b[14:16], c.Window.Resolve(defaultTCPWindow, rng))
	b[16] = 0
	b[17] = 0
	binary.BigEndian.PutUint16(b[18:20], c.Urgent.Resolve(0, rng))
	binary.BigEndian.PutUint16(b[16:18], compose.TransportChecksum(net.SrcIP, net.DstIP, protoTCP, b))
}
