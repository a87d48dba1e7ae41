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
	icmpHeaderLen = 8
	maxICMPData   = compose.MaxPacketLen - compose.IPv4HeaderLen - icmpHeaderLen

	icmpEchoRequest = 8
)

type icmpComposer struct{}

func init() {
	registry.Default.MustRegister(registry.Descriptor{
		ID:          "icmp",
		Name:        "ICMP",
		Description: "Internet Control Message Protocol, echo request by default (RFC 792)",
		Composer:    icmpComposer{},
	})
}

func (icmpComposer) Proto() uint8 {
	return protoICMP
}

func (icmpComposer) Size(cfg *config.Config) (int, error) {
	n := cfg.ICMP.DataLen
	if n < 0 || n > maxICMPData {
		return 0, fmt.Errorf("%w: icmp: data_len %d out of range [0, %d]", core.ErrInvalidConfig, n, maxICMPData)
	}
	return icmpHeaderLen + n, nil
}

func (icmpComposer) Fill(b []byte, cfg *config.Config, _ registry.Network, rng *rand.Rand) {
	c := &cfg.ICMP
	b[0] = c.Type.Resolve(icmpEchoRequest, rng)
	b[1] = c.Code.Resolve(0, rng)
	b[2] = 0
	b[3] = 0
	binary.BigEndian.PutUint16(b[4:6], c.Ident.Resolve(uint16(rng.Uint32()), rng))
	binary.BigEndian.PutUint16(b[6:8], c.Seq.Resolve(uint16(rng.Uint32()), rng))
	clear(b[icmpHeaderLen:])
	// ICMP checksums the whole message, no pseudo-header.
	binary.BigEndian.PutUint16(b[2:4], compose.Checksum(b))
}
