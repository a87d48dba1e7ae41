package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firestige.xyz/kestrel/internal/compose"
	"firestige.xyz/kestrel/internal/config"
	"firestige.xyz/kestrel/internal/inject"
	"firestige.xyz/kestrel/internal/log"
	"firestige.xyz/kestrel/internal/metrics"
	_ "firestige.xyz/kestrel/internal/modules" // register built-in protocols
)

var (
	floodProtocol string
	floodCount    int
	floodRate     int
	metricsAddr   string
)

var floodCmd = &cobra.Command{
	Use:   "flood",
	Short: "Compose and inject packets for the selected protocol",
	Long: `Flood composes one packet per iteration from the config file and hands
it to a raw socket. With --count 0 it runs until interrupted; --rate
throttles to the given packets per second.`,
	Run: runFlood,
}

func init() {
	floodCmd.Flags().StringVarP(&floodProtocol, "protocol", "p", "", "protocol identifier (see 'kestrel list')")
	floodCmd.Flags().IntVarP(&floodCount, "count", "n", 1, "number of packets to inject, 0 = unlimited")
	floodCmd.Flags().IntVarP(&floodRate, "rate", "r", 0, "packets per second, 0 = unthrottled")
	floodCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address (e.g. :9155)")
	floodCmd.MarkFlagRequired("protocol")
}

func runFlood(cmd *cobra.Command, args []string) {
	logger := log.GetLogger()

	cfg, err := config.Load(configFile)
	if err != nil {
		exitWithError("failed to load config", err)
	}

	writer, err := inject.NewWriter()
	if err != nil {
		exitWithError("failed to open raw socket (need CAP_NET_RAW?)", err)
	}
	defer writer.Close()

	if metricsAddr != "" {
		srv := metrics.NewServer(metricsAddr, "")
		if err := srv.Start(); err != nil {
			exitWithError("failed to start metrics server", err)
		}
		defer srv.Stop(context.Background())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := inject.NewLoop(compose.New(), writer, cfg, inject.LoopConfig{
		Protocol: floodProtocol,
		Count:    floodCount,
		Rate:     floodRate,
	})

	logger.WithFields(map[string]interface{}{
		"protocol": floodProtocol,
		"count":    floodCount,
		"rate":     floodRate,
		"dst":      string(cfg.Net.DstIP),
	}).Info("starting injection")

	sent, err := loop.Run(ctx)
	if err != nil && err != context.Canceled {
		logger.WithField("sent", sent).WithError(err).Error("injection aborted")
		exitWithError("injection failed", err)
	}
}
