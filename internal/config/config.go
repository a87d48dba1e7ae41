// Package config defines the composition configuration: one record of
// global network fields plus one sub-record per supported protocol.
//
// A Config is built once by the loader (or by hand in tests) and is
// read-only for the rest of its life. Every composer reads the global
// sub-record plus its own protocol sub-record and nothing else, so adding
// a protocol never disturbs existing ones. Field values carry provenance
// (see Field): absent keys fall back to per-protocol defaults, the
// "random" keyword requests a fresh draw per composed packet.
package config

import (
	"fmt"
	"strings"
)

// Config is the full composition configuration. Immutable during
// composition; safe to share read-only across goroutines.
type Config struct {
	Net  NetConfig  `mapstructure:"net" yaml:"net"`
	TCP  TCPConfig  `mapstructure:"tcp" yaml:"tcp"`
	UDP  UDPConfig  `mapstructure:"udp" yaml:"udp"`
	ICMP ICMPConfig `mapstructure:"icmp" yaml:"icmp"`
	IGMP IGMPConfig `mapstructure:"igmp" yaml:"igmp"`
	RIP  RIPConfig  `mapstructure:"rip" yaml:"rip"`
	GRE  GREConfig  `mapstructure:"gre" yaml:"gre"`
	DCCP DCCPConfig `mapstructure:"dccp" yaml:"dccp"`
}

// NetConfig holds the outer IPv4 header fields shared by every protocol.
type NetConfig struct {
	SrcIP Addr `mapstructure:"src_ip" yaml:"src_ip"` // "random" spoofs a fresh source per packet
	DstIP Addr `mapstructure:"dst_ip" yaml:"dst_ip"` // required
	TOS   U8   `mapstructure:"tos" yaml:"tos"`
	ID    U16  `mapstructure:"id" yaml:"id"` // default: random per packet
	TTL   U8   `mapstructure:"ttl" yaml:"ttl"`
	DF    bool `mapstructure:"df" yaml:"df"` // set the Don't Fragment bit
}

// TCPConfig tunes the TCP composer. Flags is a comma-separated list of
// fin, syn, rst, psh, ack, urg; empty means a bare SYN.
type TCPConfig struct {
	SrcPort U16    `mapstructure:"src_port" yaml:"src_port"`
	DstPort U16    `mapstructure:"dst_port" yaml:"dst_port"`
	Seq     U32    `mapstructure:"seq" yaml:"seq"`
	Ack     U32    `mapstructure:"ack" yaml:"ack"`
	Flags   string `mapstructure:"flags" yaml:"flags"`
	Window  U16    `mapstructure:"window" yaml:"window"`
	Urgent  U16    `mapstructure:"urgent" yaml:"urgent"`
}

// UDPConfig tunes the UDP composer. DataLen appends that many zero bytes
// after the UDP header.
type UDPConfig struct {
	SrcPort U16 `mapstructure:"src_port" yaml:"src_port"`
	DstPort U16 `mapstructure:"dst_port" yaml:"dst_port"`
	DataLen int `mapstructure:"data_len" yaml:"data_len"`
}

// ICMPConfig tunes the ICMP composer. Defaults describe an echo request.
type ICMPConfig struct {
	Type    U8  `mapstructure:"type" yaml:"type"`
	Code    U8  `mapstructure:"code" yaml:"code"`
	Ident   U16 `mapstructure:"ident" yaml:"ident"`
	Seq     U16 `mapstructure:"seq" yaml:"seq"`
	DataLen int `mapstructure:"data_len" yaml:"data_len"`
}

// IGMPConfig tunes the IGMPv2 composer. Defaults describe a general
// membership query.
type IGMPConfig struct {
	Type    U8   `mapstructure:"type" yaml:"type"`
	MaxResp U8   `mapstructure:"max_resp" yaml:"max_resp"`
	Group   Addr `mapstructure:"group" yaml:"group"`
}

// RIPConfig tunes the RIP composer, which rides UDP port 520 and carries
// a single route entry.
type RIPConfig struct {
	Version U8   `mapstructure:"version" yaml:"version"` // 1 or 2
	Command U8   `mapstructure:"command" yaml:"command"`
	Family  U16  `mapstructure:"family" yaml:"family"`
	Tag     U16  `mapstructure:"tag" yaml:"tag"` // RIPv2 only
	Address Addr `mapstructure:"address" yaml:"address"`
	Mask    Addr `mapstructure:"mask" yaml:"mask"`         // RIPv2 only
	NextHop Addr `mapstructure:"next_hop" yaml:"next_hop"` // RIPv2 only
	Metric  U32  `mapstructure:"metric" yaml:"metric"`
	SrcPort U16  `mapstructure:"src_port" yaml:"src_port"`
}

// GREConfig tunes the GRE composer. Key and Seq are optional header
// words: configuring them (literally or randomly) sets the matching
// presence flag.
type GREConfig struct {
	Checksum bool `mapstructure:"checksum" yaml:"checksum"`
	Key      U32  `mapstructure:"key" yaml:"key"`
	Seq      U32  `mapstructure:"seq" yaml:"seq"`
	Proto    U16  `mapstructure:"proto" yaml:"proto"` // encapsulated ethertype
	DataLen  int  `mapstructure:"data_len" yaml:"data_len"`
}

// DCCPConfig tunes the DCCP composer, which emits a DCCP-Request with
// extended 48-bit sequence numbers.
type DCCPConfig struct {
	SrcPort U16 `mapstructure:"src_port" yaml:"src_port"`
	DstPort U16 `mapstructure:"dst_port" yaml:"dst_port"`
	Service U32 `mapstructure:"service" yaml:"service"`
	Seq     U32 `mapstructure:"seq" yaml:"seq"` // low 32 bits of the sequence
}

// Validate checks the invariants the engine assumes before any packet is
// composed: a parseable destination, well-formed addresses, sane lengths.
// Protocol composers re-check their own preconditions per composition;
// this is the early, user-facing pass run by the validate command.
func (c *Config) Validate() error {
	if !c.Net.DstIP.Set() {
		return fmt.Errorf("net.dst_ip is required")
	}
	addrs := []struct {
		name string
		addr Addr
	}{
		{"net.src_ip", c.Net.SrcIP},
		{"net.dst_ip", c.Net.DstIP},
		{"igmp.group", c.IGMP.Group},
		{"rip.address", c.RIP.Address},
		{"rip.mask", c.RIP.Mask},
		{"rip.next_hop", c.RIP.NextHop},
	}
	for _, a := range addrs {
		if err := a.addr.Valid(); err != nil {
			return fmt.Errorf("%s: %w", a.name, err)
		}
	}
	if _, err := ParseTCPFlags(c.TCP.Flags); err != nil {
		return fmt.Errorf("tcp.flags: %w", err)
	}
	lens := []struct {
		name string
		n    int
	}{
		{"udp.data_len", c.UDP.DataLen},
		{"icmp.data_len", c.ICMP.DataLen},
		{"gre.data_len", c.GRE.DataLen},
	}
	for _, l := range lens {
		if l.n < 0 {
			return fmt.Errorf("%s must not be negative: %d", l.name, l.n)
		}
	}
	return nil
}

// TCP flag bits in wire order (RFC 9293 §3.1).
const (
	TCPFin = 1 << iota
	TCPSyn
	TCPRst
	TCPPsh
	TCPAck
	TCPUrg
)

var tcpFlagNames = map[string]uint8{
	"fin": TCPFin,
	"syn": TCPSyn,
	"rst": TCPRst,
	"psh": TCPPsh,
	"ack": TCPAck,
	"urg": TCPUrg,
}

// ParseTCPFlags converts a comma-separated flag list into the TCP flag
// byte. Empty input yields a bare SYN.
func ParseTCPFlags(s string) (uint8, error) {
	if strings.TrimSpace(s) == "" {
		return TCPSyn, nil
	}
	var flags uint8
	for _, name := range strings.Split(s, ",") {
		bit, ok := tcpFlagNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown TCP flag %q", name)
		}
		flags |= bit
	}
	return flags, nil
}
