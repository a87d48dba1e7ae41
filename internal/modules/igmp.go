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
	igmpMessageLen = 8

	igmpMembershipQuery = 0x11
	defaultIGMPMaxResp  = 100 // 10 seconds, in tenths
)

type igmpComposer struct{}

func init() {
	registry.Default.MustRegister(registry.Descriptor{
		ID:          "igmp",
		Name:        "IGMPv2",
		Description: "Internet Group Management Protocol v2 message (RFC 2236)",
		Composer:    igmpComposer{},
	})
}

func (igmpComposer) Proto() uint8 {
	return protoIGMP
}

func (igmpComposer) Size(cfg *config.Config) (int, error) {
	// A general query carries the unspecified group; any literal must parse.
	if err := cfg.IGMP.Group.Valid(); err != nil {
		return 0, fmt.Errorf("%w: igmp: group: %v", core.ErrInvalidConfig, err)
	}
	return igmpMessageLen, nil
}

func (igmpComposer) Fill(b []byte, cfg *config.Config, _ registry.Network, rng *rand.Rand) {
	c := &cfg.IGMP
	b[0] = c.Type.Resolve(igmpMembershipQuery, rng)
	b[1] = c.MaxResp.Resolve(defaultIGMPMaxResp, rng)
	b[2] = 0
	b[3] = 0
	group, _ := c.Group.Resolve([4]byte{}, rng) // validated in Size
	copy(b[4:8], group[:])
	binary.BigEndian.PutUint16(b[2:4], compose.Checksum(b))
}
