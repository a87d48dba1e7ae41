package modules

import (
	"encoding/binary"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/kestrel/internal/compose"
	"firestige.xyz/kestrel/internal/config"
	"firestige.xyz/kestrel/internal/core"
)

func baseConfig() *config.Config {
	return &config.Config{
		Net: config.NetConfig{
			SrcIP: "192.0.2.1",
			DstIP: "198.51.100.2",
			ID:    config.Lit[uint16](1),
			TTL:   config.Lit[uint8](64),
		},
	}
}

func mustCompose(t *testing.T, e *compose.Engine, id string, cfg *config.Config) []byte {
	t.Helper()
	pkt, err := e.Compose(id, cfg)
	require.NoError(t, err)
	return pkt
}

func decodeIPv4(t *testing.T, pkt []byte) gopacket.Packet {
	t.Helper()
	decoded := gopacket.NewPacket(pkt, layers.LayerTypeIPv4, gopacket.Default)
	require.NotNil(t, decoded.Layer(layers.LayerTypeIPv4))
	return decoded
}

func srcDst(pkt []byte) (src, dst [4]byte) {
	copy(src[:], pkt[12:16])
	copy(dst[:], pkt[16:20])
	return
}

func TestTCP_Compose(t *testing.T) {
	cfg := baseConfig()
	cfg.TCP = config.TCPConfig{
		SrcPort: config.Lit[uint16](12345),
		DstPort: config.Lit[uint16](80),
		Seq:     config.Lit[uint32](0xCAFE0001),
		Ack:     config.Lit[uint32](0),
		Flags:   "syn,ack",
		Window:  config.Lit[uint16](4096),
	}

	pkt := mustCompose(t, compose.New(), "tcp", cfg)
	require.Len(t, pkt, compose.IPv4HeaderLen+20)

	decoded := decodeIPv4(t, pkt)
	ip := decoded.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	assert.Equal(t, layers.IPProtocolTCP, ip.Protocol)

	tcpLayer := decoded.Layer(layers.LayerTypeTCP)
	require.NotNil(t, tcpLayer)
	tcp := tcpLayer.(*layers.TCP)
	assert.Equal(t, layers.TCPPort(12345), tcp.SrcPort)
	assert.Equal(t, layers.TCPPort(80), tcp.DstPort)
	assert.Equal(t, uint32(0xCAFE0001), tcp.Seq)
	assert.True(t, tcp.SYN)
	assert.True(t, tcp.ACK)
	assert.False(t, tcp.FIN)
	assert.Equal(t, uint16(4096), tcp.Window)

	src, dst := srcDst(pkt)
	assert.Equal(t, uint16(0), compose.TransportChecksum(src, dst, 6, pkt[20:]))
}

func TestTCP_DefaultIsSyn(t *testing.T) {
	pkt := mustCompose(t, compose.New(), "tcp", baseConfig())
	assert.Equal(t, uint8(config.TCPSyn), pkt[20+13])
}

func TestTCP_BadFlagsRejected(t *testing.T) {
	cfg := baseConfig()
	cfg.TCP.Flags = "nope"
	_, err := compose.New().Compose("tcp", cfg)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestUDP_Compose(t *testing.T) {
	cfg := baseConfig()
	cfg.UDP = config.UDPConfig{
		SrcPort: config.Lit[uint16](40000),
		DstPort: config.Lit[uint16](53),
		DataLen: 16,
	}

	pkt := mustCompose(t, compose.New(), "udp", cfg)
	require.Len(t, pkt, compose.IPv4HeaderLen+8+16)

	decoded := decodeIPv4(t, pkt)
	udpLayer := decoded.Layer(layers.LayerTypeUDP)
	require.NotNil(t, udpLayer)
	udp := udpLayer.(*layers.UDP)
	assert.Equal(t, layers.UDPPort(40000), udp.SrcPort)
	assert.Equal(t, layers.UDPPort(53), udp.DstPort)
	assert.Equal(t, uint16(24), udp.Length)

	for _, b := range pkt[28:] {
		require.Zero(t, b, "datagram padding must be zero-filled")
	}

	src, dst := srcDst(pkt)
	assert.Equal(t, uint16(0), compose.TransportChecksum(src, dst, 17, pkt[20:]))
}

func TestUDP_DataLenOutOfRange(t *testing.T) {
	cfg := baseConfig()
	cfg.UDP.DataLen = 100_000
	_, err := compose.New().Compose("udp", cfg)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestICMP_Compose(t *testing.T) {
	cfg := baseConfig()
	cfg.ICMP = config.ICMPConfig{
		Ident:   config.Lit[uint16](0x0102),
		Seq:     config.Lit[uint16](7),
		DataLen: 32,
	}

	pkt := mustCompose(t, compose.New(), "icmp", cfg)
	require.Len(t, pkt, compose.IPv4HeaderLen+8+32)

	decoded := decodeIPv4(t, pkt)
	icmpLayer := decoded.Layer(layers.LayerTypeICMPv4)
	require.NotNil(t, icmpLayer)
	icmp := icmpLayer.(*layers.ICMPv4)
	assert.Equal(t, uint8(8), icmp.TypeCode.Type(), "defaults to echo request")
	assert.Equal(t, uint16(0x0102), icmp.Id)
	assert.Equal(t, uint16(7), icmp.Seq)

	// ICMP checksums the message without a pseudo-header.
	assert.Equal(t, uint16(0), compose.Checksum(pkt[20:]))
}

func TestIGMP_Compose(t *testing.T) {
	cfg := baseConfig()
	cfg.IGMP = config.IGMPConfig{
		Type:    config.Lit[uint8](0x16), // membership report
		MaxResp: config.Lit[uint8](0),
		Group:   "224.0.0.251",
	}

	pkt := mustCompose(t, compose.New(), "igmp", cfg)
	require.Len(t, pkt, compose.IPv4HeaderLen+8)

	payload := pkt[20:]
	assert.Equal(t, uint8(0x16), payload[0])
	assert.Equal(t, []byte{224, 0, 0, 251}, payload[4:8])
	assert.Equal(t, uint16(0), compose.Checksum(payload))

	decoded := decodeIPv4(t, pkt)
	ip := decoded.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	assert.Equal(t, layers.IPProtocolIGMP, ip.Protocol)
}

func TestIGMP_DefaultQuery(t *testing.T) {
	pkt := mustCompose(t, compose.New(), "igmp", baseConfig())
	payload := pkt[20:]
	assert.Equal(t, uint8(0x11), payload[0])
	assert.Equal(t, []byte{0, 0, 0, 0}, payload[4:8], "general query targets the unspecified group")
}

func TestIGMP_BadGroupRejected(t *testing.T) {
	cfg := baseConfig()
	cfg.IGMP.Group = "not-a-group"
	_, err := compose.New().Compose("igmp", cfg)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestRIP_ComposeV2(t *testing.T) {
	cfg := baseConfig()
	cfg.RIP = config.RIPConfig{
		Version: config.Lit[uint8](2),
		Command: config.Lit[uint8](2), // response
		Tag:     config.Lit[uint16](9),
		Address: "10.1.2.0",
		Mask:    "255.255.255.0",
		NextHop: "10.1.2.254",
		Metric:  config.Lit[uint32](3),
		SrcPort: config.Lit[uint16](520),
	}

	pkt := mustCompose(t, compose.New(), "rip", cfg)
	require.Len(t, pkt, compose.IPv4HeaderLen+8+4+20)

	udp := pkt[20:]
	assert.Equal(t, uint16(520), binary.BigEndian.Uint16(udp[0:2]))
	assert.Equal(t, uint16(520), binary.BigEndian.Uint16(udp[2:4]))
	assert.Equal(t, uint16(32), binary.BigEndian.Uint16(udp[4:6]))

	msg := udp[8:]
	assert.Equal(t, uint8(2), msg[0], "command")
	assert.Equal(t, uint8(2), msg[1], "version")

	entry := msg[4:]
	assert.Equal(t, uint16(2), binary.BigEndian.Uint16(entry[0:2]), "address family")
	assert.Equal(t, uint16(9), binary.BigEndian.Uint16(entry[2:4]), "route tag")
	assert.Equal(t, []byte{10, 1, 2, 0}, entry[4:8])
	assert.Equal(t, []byte{255, 255, 255, 0}, entry[8:12])
	assert.Equal(t, []byte{10, 1, 2, 254}, entry[12:16])
	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(entry[16:20]))

	src, dst := srcDst(pkt)
	assert.Equal(t, uint16(0), compose.TransportChecksum(src, dst, 17, udp))
}

func TestRIP_V1ZeroesV2Fields(t *testing.T) {
	cfg := baseConfig()
	cfg.RIP = config.RIPConfig{
		Version: config.Lit[uint8](1),
		Address: "10.1.2.0",
		Mask:    "255.255.255.0", // must be suppressed in v1
		Tag:     config.Lit[uint16](9),
	}

	pkt := mustCompose(t, compose.New(), "rip", cfg)
	entry := pkt[20+8+4:]
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(entry[2:4]), "v1 route tag")
	assert.Equal(t, []byte{0, 0, 0, 0}, entry[8:12], "v1 mask")
	assert.Equal(t, []byte{0, 0, 0, 0}, entry[12:16], "v1 next hop")
}

func TestRIP_BadVersionRejected(t *testing.T) {
	cfg := baseConfig()
	cfg.RIP.Version = config.Lit[uint8](3)
	_, err := compose.New().Compose("rip", cfg)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestGRE_Compose(t *testing.T) {
	cfg := baseConfig()
	cfg.GRE = config.GREConfig{
		Checksum: true,
		Key:      config.Lit[uint32](0xAABBCCDD),
		Seq:      config.Lit[uint32](42),
		DataLen:  8,
	}

	pkt := mustCompose(t, compose.New(), "gre", cfg)
	require.Len(t, pkt, compose.IPv4HeaderLen+4+4+4+4+8)

	decoded := decodeIPv4(t, pkt)
	greLayer := decoded.Layer(layers.LayerTypeGRE)
	require.NotNil(t, greLayer)
	gre := greLayer.(*layers.GRE)
	assert.True(t, gre.ChecksumPresent)
	assert.True(t, gre.KeyPresent)
	assert.True(t, gre.SeqPresent)
	assert.Equal(t, uint32(0xAABBCCDD), gre.Key)
	assert.Equal(t, uint32(42), gre.Seq)
	assert.Equal(t, layers.EthernetTypeIPv4, gre.Protocol)

	assert.Equal(t, uint16(0), compose.Checksum(pkt[20:]))
}

func TestGRE_MinimalHeader(t *testing.T) {
	pkt := mustCompose(t, compose.New(), "gre", baseConfig())
	require.Len(t, pkt, compose.IPv4HeaderLen+4)

	payload := pkt[20:]
	assert.Equal(t, uint8(0), payload[0], "no optional words, version 0")
	assert.Equal(t, uint16(0x0800), binary.BigEndian.Uint16(payload[2:4]))
}

func TestDCCP_Compose(t *testing.T) {
	cfg := baseConfig()
	cfg.DCCP = config.DCCPConfig{
		SrcPort: config.Lit[uint16](3001),
		DstPort: config.Lit[uint16](5001),
		Service: config.Lit[uint32](0x6B657374),
		Seq:     config.Lit[uint32](0x11223344),
	}

	pkt := mustCompose(t, compose.New(), "dccp", cfg)
	require.Len(t, pkt, compose.IPv4HeaderLen+20)

	hdr := pkt[20:]
	assert.Equal(t, uint16(3001), binary.BigEndian.Uint16(hdr[0:2]))
	assert.Equal(t, uint16(5001), binary.BigEndian.Uint16(hdr[2:4]))
	assert.Equal(t, uint8(5), hdr[4], "data offset in words")
	assert.Equal(t, uint8(0x01), hdr[8], "type request, X=1")
	assert.Equal(t, uint32(0x11223344), binary.BigEndian.Uint32(hdr[12:16]))
	assert.Equal(t, uint32(0x6B657374), binary.BigEndian.Uint32(hdr[16:20]))

	src, dst := srcDst(pkt)
	assert.Equal(t, uint16(0), compose.TransportChecksum(src, dst, 33, hdr))
}

func TestModules_SizeConsistency(t *testing.T) {
	e := compose.New()
	cfg := baseConfig()

	expected := map[string]int{
		"tcp":  20,
		"udp":  8,
		"icmp": 8,
		"igmp": 8,
		"rip":  32,
		"gre":  4,
		"dccp": 20,
	}
	for id, payloadLen := range expected {
		pkt := mustCompose(t, e, id, cfg)
		assert.Len(t, pkt, compose.IPv4HeaderLen+payloadLen, id)
		assert.Equal(t, uint16(len(pkt)), binary.BigEndian.Uint16(pkt[2:4]), "%s total length field", id)
	}
}

func TestModules_RandomPortsVary(t *testing.T) {
	e := compose.New()
	cfg := baseConfig()
	cfg.UDP.SrcPort = config.Rand[uint16]()
	cfg.UDP.DstPort = config.Lit[uint16](53)

	seen := make(map[uint16]bool)
	for i := 0; i < 128; i++ {
		pkt := mustCompose(t, e, "udp", cfg)
		seen[binary.BigEndian.Uint16(pkt[20:22])] = true
	}
	assert.Greater(t, len(seen), 64, "random source port must vary")
}

func TestModules_ChecksumTracksRandomFields(t *testing.T) {
	e := compose.New()
	cfg := baseConfig()
	cfg.ICMP.Ident = config.Rand[uint16]()

	for i := 0; i < 32; i++ {
		pkt := mustCompose(t, e, "icmp", cfg)
		require.Equal(t, uint16(0), compose.Checksum(pkt[20:]))
	}
}
