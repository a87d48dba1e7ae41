package inject

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/kestrel/internal/compose"
	"firestige.xyz/kestrel/internal/config"
	"firestige.xyz/kestrel/internal/core"
	_ "firestige.xyz/kestrel/internal/modules" // register built-in protocols
)

type fakeWriter struct {
	packets [][]byte
	err     error
}

func (w *fakeWriter) WritePacket(pkt []byte) error {
	if w.err != nil {
		return w.err
	}
	w.packets = append(w.packets, append([]byte(nil), pkt...))
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func loopConfig() *config.Config {
	return &config.Config{
		Net: config.NetConfig{
			SrcIP: "192.0.2.1",
			DstIP: "198.51.100.2",
			ID:    config.Lit[uint16](1),
			TTL:   config.Lit[uint8](64),
		},
	}
}

func TestLoop_CountRespected(t *testing.T) {
	w := &fakeWriter{}
	l := NewLoop(compose.New(), w, loopConfig(), LoopConfig{Protocol: "icmp", Count: 5})

	sent, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, sent)
	require.Len(t, w.packets, 5)
	for _, pkt := range w.packets {
		assert.Len(t, pkt, 28)
	}
}

func TestLoop_ComposeErrorIsFatal(t *testing.T) {
	w := &fakeWriter{}
	l := NewLoop(compose.New(), w, loopConfig(), LoopConfig{Protocol: "no-such-proto", Count: 3})

	sent, err := l.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrUnknownProtocol)
	assert.Zero(t, sent)
	assert.Empty(t, w.packets)
}

func TestLoop_WriteErrorsAreCountedNotFatal(t *testing.T) {
	w := &fakeWriter{err: errors.New("interface down")}
	l := NewLoop(compose.New(), w, loopConfig(), LoopConfig{Protocol: "icmp", Count: 3})

	sent, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestLoop_CancelStopsUnlimitedRun(t *testing.T) {
	w := &fakeWriter{}
	l := NewLoop(compose.New(), w, loopConfig(), LoopConfig{Protocol: "udp", Count: 0, Rate: 1000})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	sent, err := l.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, sent, 0)
	assert.Less(t, sent, 1000)
}

func TestDstAddr(t *testing.T) {
	pkt := make([]byte, 20)
	copy(pkt[16:20], []byte{198, 51, 100, 2})
	assert.Equal(t, [4]byte{198, 51, 100, 2}, dstAddr(pkt))
}
