package modules

import (
	"encoding/binary"
	"math/rand/v2"

	"firestige.xyz/kestrel/internal/compose"
	"firestige.xyz/kestrel/internal/config"
	"firestige.xyz/kestrel/internal/registry"
)

// DCCP-Request with extended (48-bit) sequence numbers: 16-byte generic
// header plus the 4-byte service code (RFC 4340 §5.1).
const (
	dccpRequestLen = 20

	dccpTypeRequest = 0
)

type dccpComposer struct{}

func init() {
	registry.Default.MustRegister(registry.Descriptor{
		ID:          "dccp",
		Name:        "DCCP",
		Description: "Datagram Congestion Control Protocol connection request (RFC 4340)",
		Composer:    dccpComposer{},
	})
}

func (dccpComposer) Proto() uint8 {
	return protoDCCP
}

func (dccpComposer) Size(*config.Config) (int, error) {
	return dccpRequestLen, nil
}

func (dccpComposer) Fill(b []byte, cfg *config.Config, net registry.Network, rng *rand.Rand) {
	c := &cfg.DCCP
	binary.BigEndian.PutUint16(b[0:2], c.SrcPort.Resolve(uint16(rng.Uint32()), rng))
	binary.BigEndian.PutUint16(b[2:4], c.DstPort.Resolve(uint16(rng.Uint32()), rng))
	b[4] = dccpRequestLen / 4 // data offset in 32-bit words
	b[5] = 0                  // CCVal 0, CsCov 0: checksum covers the whole packet
	b[6] = 0
	b[7] = 0
	b[8] = dccpTypeRequest<<1 | 1 // type, X=1
	b[9] = 0                      // reserved
	binary.BigEndian.PutUint16(b[10:12], 0) // sequence bits 47..32
	binary.BigEndian.PutUint32(b[12:16], c.Seq.Resolve(rng.Uint32(), rng))
	binary.BigEndian.PutUint32(b[16:20], c.Service.Resolve(0, rng))
	binary.BigEndian.PutUint16(b[6:8], compose.TransportChecksum(net.SrcIP, net.DstIP, protoDCCP, b))
}
