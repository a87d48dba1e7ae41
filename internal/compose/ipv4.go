package compose

import (
	"encoding/binary"
	"math/rand/v2"

	"firestige.xyz/kestrel/internal/config"
)

const (
	// IPv4HeaderLen is the outer header size; no IP options are emitted.
	IPv4HeaderLen = 20

	// MaxPacketLen caps the total packet size at the IPv4 Total Length limit.
	MaxPacketLen = 0xFFFF

	defaultTTL = 255

	flagDF = 0x4000
)

// writeIPv4 fills the 20-byte outer header. total is the final packet
// size, already known because payload sizing precedes header writing;
// src and dst are the resolved addresses shared with the filler.
//
// A zero source address is legal: with IP_HDRINCL the kernel substitutes
// the egress interface address.
func writeIPv4(hdr []byte, cfg *config.Config, proto uint8, total int, src, dst [4]byte, rng *rand.Rand) {
	hdr[0] = 0x45 // version 4, IHL 5 words
	hdr[1] = cfg.Net.TOS.Resolve(0, rng)
	binary.BigEndian.PutUint16(hdr[2:4], uint16(total))
	binary.BigEndian.PutUint16(hdr[4:6], cfg.Net.ID.Resolve(uint16(rng.Uint32()), rng))
	var flags uint16
	if cfg.Net.DF {
		flags = flagDF
	}
	binary.BigEndian.PutUint16(hdr[6:8], flags)
	hdr[8] = cfg.Net.TTL.Resolve(defaultTTL, rng)
	hdr[9] = proto
	hdr[10] = 0
	hdr[11] = 0
	copy(hdr[12:16], src[:])
	copy(hdr[16:20], dst[:])
	binary.BigEndian.PutUint16(hdr[10:12], Checksum(hdr[:IPv4HeaderLen]))
}
