package config

import "gopkg.in/yaml.v3"

// Template renders a fully populated example configuration in the format
// Load accepts. Used by the template command as a starting point for new
// config files.
func Template() ([]byte, error) {
	cfg := Config{
		Net: NetConfig{
			SrcIP: "random",
			DstIP: "192.0.2.1",
			TOS:   Lit[uint8](0),
			ID:    Rand[uint16](),
			TTL:   Lit[uint8](255),
			DF:    false,
		},
		TCP: TCPConfig{
			SrcPort: Rand[uint16](),
			DstPort: Lit[uint16](80),
			Seq:     Rand[uint32](),
			Ack:     Lit[uint32](0),
			Flags:   "syn",
			Window:  Lit[uint16](8192),
			Urgent:  Lit[uint16](0),
		},
		UDP: UDPConfig{
			SrcPort: Rand[uint16](),
			DstPort: Lit[uint16](53),
			DataLen: 0,
		},
		ICMP: ICMPConfig{
			Type:    Lit[uint8](8),
			Code:    Lit[uint8](0),
			Ident:   Rand[uint16](),
			Seq:     Rand[uint16](),
			DataLen: 0,
		},
		IGMP: IGMPConfig{
			Type:    Lit[uint8](0x11),
			MaxResp: Lit[uint8](100),
			Group:   "0.0.0.0",
		},
		RIP: RIPConfig{
			Version: Lit[uint8](2),
			Command: Lit[uint8](1),
			Family:  Lit[uint16](2),
			Tag:     Lit[uint16](0),
			Address: "random",
			Mask:    "255.255.255.0",
			NextHop: "0.0.0.0",
			Metric:  Lit[uint32](1),
			SrcPort: Rand[uint16](),
		},
		GRE: GREConfig{
			Checksum: true,
			Key:      Rand[uint32](),
			Seq:      Lit[uint32](0),
			Proto:    Lit[uint16](0x0800),
			DataLen:  0,
		},
		DCCP: DCCPConfig{
			SrcPort: Rand[uint16](),
			DstPort: Lit[uint16](33),
			Service: Lit[uint32](0),
			Seq:     Rand[uint32](),
		},
	}
	return yaml.Marshal(&cfg)
}
