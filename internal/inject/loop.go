package inject

import (
	"context"
	"time"

	"firestige.xyz/kestrel/internal/compose"
	"firestige.xyz/kestrel/internal/config"
	"firestige.xyz/kestrel/internal/log"
	"firestige.xyz/kestrel/internal/metrics"
)

// LoopConfig sets how many packets to inject and how fast.
type LoopConfig struct {
	Protocol string
	Count    int // 0 = until cancelled
	Rate     int // packets per second, 0 = unthrottled
}

// Loop composes and injects packets one at a time: the engine is invoked
// once per packet and the resulting view is handed straight to the writer
// before the next composition overwrites it.
type Loop struct {
	engine *compose.Engine
	writer Writer
	cfg    *config.Config
	lc     LoopConfig
}

// NewLoop wires an engine and a writer into an injection loop.
func NewLoop(engine *compose.Engine, writer Writer, cfg *config.Config, lc LoopConfig) *Loop {
	return &Loop{engine: engine, writer: writer, cfg: cfg, lc: lc}
}

// Run injects until the configured count is reached or ctx is cancelled.
// It returns the number of packets sent and the first fatal error, if any.
// Composition errors are fatal: they are configuration mistakes that every
// subsequent iteration would repeat.
func (l *Loop) Run(ctx context.Context) (int, error) {
	logger := log.GetLogger().WithField("protocol", l.lc.Protocol)

	var ticker *time.Ticker
	if l.lc.Rate > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(l.lc.Rate))
		defer ticker.Stop()
	}

	start := time.Now()
	sent := 0
	for attempts := 0; l.lc.Count == 0 || attempts < l.lc.Count; attempts++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return sent, err
		}

		pkt, err := l.engine.Compose(l.lc.Protocol, l.cfg)
		if err != nil {
			metrics.ComposeErrorsTotal.WithLabelValues(l.lc.Protocol).Inc()
			return sent, err
		}
		metrics.PacketsComposedTotal.WithLabelValues(l.lc.Protocol).Inc()

		if err := l.writer.WritePacket(pkt); err != nil {
			metrics.SendErrorsTotal.WithLabelValues(l.lc.Protocol).Inc()
			logger.WithError(err).Warn("packet write failed")
			continue
		}
		metrics.PacketsSentTotal.WithLabelValues(l.lc.Protocol).Inc()
		metrics.BytesSentTotal.WithLabelValues(l.lc.Protocol).Add(float64(len(pkt)))
		sent++
	}

	elapsed := time.Since(start)
	logger.WithFields(map[string]interface{}{
		"sent":    sent,
		"elapsed": elapsed.Round(time.Millisecond).String(),
	}).Info("injection finished")
	return sent, nil
}
