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
	greBaseLen = 4
	greWordLen = 4

	greFlagChecksum = 0x80
	greFlagKey      = 0x20
	greFlagSeq      = 0x10

	defaultGREProto = 0x0800 // encapsulated IPv4
)

// The key and sequence words are emitted only when configured, so their
// Field provenance doubles as the GRE presence flag.
type greComposer struct{}

func init() {
	registry.Default.MustRegister(registry.Descriptor{
		ID:          "gre",
		Name:        "GRE",
		Description: "Generic Routing Encapsulation header (RFC 2784/2890)",
		Composer:    greComposer{},
	})
}

func (greComposer) Proto() uint8 {
	return protoGRE
}

func greHeaderLen(c *config.GREConfig) int {
	n := greBaseLen
	if c.Checksum {
		n += greWordLen
	}
	if c.Key.Set() {
		n += greWordLen
	}
	if c.Seq.Set() {
		n += greWordLen
	}
	return n
}

func (greComposer) Size(cfg *config.Config) (int, error) {
	c := &cfg.GRE
	header := greHeaderLen(c)
	maxData := compose.MaxPacketLen - compose.IPv4HeaderLen - header
	if c.DataLen < 0 || c.DataLen > maxData {
		return 0, fmt.Errorf("%w: gre: data_len %d out of range [0, %d]", core.ErrInvalidConfig, c.DataLen, maxData)
	}
	return header + c.DataLen, nil
}

func (greComposer) Fill(b []byte, cfg *config.Config, _ registry.Network, rng *rand.Rand) {
	c := &cfg.GRE
	var flags uint8
	offset := greBaseLen
	if c.Checksum {
		flags |= greFlagChecksum
		offset += greWordLen // checksum + reserved1, filled last
	}
	if c.Key.Set() {
		flags |= greFlagKey
		binary.BigEndian.PutUint32(b[offset:offset+4], c.Key.Resolve(0, rng))
		offset += greWordLen
	}
	if c.Seq.Set() {
		flags |= greFlagSeq
		binary.BigEndian.PutUint32(b[offset:offset+4], c.Seq.Resolve(0, rng))
		offset += greWordLen
	}
	b[0] = flags
	b[1] = 0 // version 0
	binary.BigEndian.PutUint16(b[2:4], c.Proto.Resolve(defaultGREProto, rng))
	clear(b[offset:])
	if c.Checksum {
		binary.BigEndian.PutUint32(b[greBaseLen:greBaseLen+4], 0)
		binary.BigEndian.PutUint16(b[greBaseLen:greBaseLen+2], compose.Checksum(b))
	}
}
