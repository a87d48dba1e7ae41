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

// RIP rides UDP, so this composer emits the UDP header itself: 8 bytes of
// UDP, 4 bytes of RIP header, one 20-byte route entry.
const (
	ripHeaderLen = 4
	ripEntryLen  = 20
	ripPort      = 520

	ripCommandRequest = 1
	defaultRIPVersion = 2
	ripFamilyInet     = 2
	defaultRIPMetric  = 1
)

type ripComposer struct{}

func init() {
	registry.Default.MustRegister(registry.Descriptor{
		ID:          "rip",
		Name:        "RIP",
		Description: "Routing Information Protocol v1/v2 over UDP 520 (RFC 2453)",
		Composer:    ripComposer{},
	})
}

func (ripComposer) Proto() uint8 {
	return protoUDP
}

func (ripComposer) Size(cfg *config.Config) (int, error) {
	c := &cfg.RIP
	if v := c.Version; v.Provenance() == config.FromLiteral {
		if got := v.Resolve(0, nil); got != 1 && got != 2 {
			return 0, fmt.Errorf("%w: rip: version must be 1 or 2, got %d", core.ErrInvalidConfig, got)
		}
	}
	for _, a := range []config.Addr{c.Address, c.Mask, c.NextHop} {
		if err := a.Valid(); err != nil {
			return 0, fmt.Errorf("%w: rip: %v", core.ErrInvalidConfig, err)
		}
	}
	return udpHeaderLen + ripHeaderLen + ripEntryLen, nil
}

func (ripComposer) Fill(b []byte, cfg *config.Config, net registry.Network, rng *rand.Rand) {
	c := &cfg.RIP
	binary.BigEndian.PutUint16(b[0:2], c.SrcPort.Resolve(uint16(rng.Uint32()), rng))
	binary.BigEndian.PutUint16(b[2:4], ripPort)
	binary.BigEndian.PutUint16(b[4:6], uint16(len(b)))
	b[6] = 0
	b[7] = 0

	version := c.Version.Resolve(defaultRIPVersion, rng)
	msg := b[udpHeaderLen:]
	msg[0] = c.Command.Resolve(ripCommandRequest, rng)
	msg[1] = version
	msg[2] = 0
	msg[3] = 0

	entry := msg[ripHeaderLen:]
	binary.BigEndian.PutUint16(entry[0:2], c.Family.Resolve(ripFamilyInet, rng))
	address, _ := c.Address.Resolve([4]byte{}, rng) // validated in Size
	copy(entry[4:8], address[:])
	if version == 1 {
		// Route tag, mask and next hop must be zero in RIPv1 entries.
		binary.BigEndian.PutUint16(entry[2:4], 0)
		clear(entry[8:16])
	} else {
		binary.BigEndian.PutUint16(entry[2:4], c.Tag.Resolve(0, rng))
		mask, _ := c.Mask.Resolve([4]byte{}, rng)
		copy(entry[8:12], mask[:])
		nextHop, _ := c.NextHop.Resolve([4]byte{}, rng)
		copy(entry[12:16], nextHop[:])
	}
	binary.BigEndian.PutUint32(entry[16:20], c.Metric.Resolve(defaultRIPMetric, rng))

	cksum := compose.TransportChecksum(net.SrcIP, net.DstIP, protoUDP, b)
	if cksum == 0 {
		cksum = 0xFFFF
	}
	binary.BigEndian.PutUint16(b[6:8], cksum)
}
