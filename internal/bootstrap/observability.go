package bootstrap

import (
	"log/slog"

	"github.com/target/crewboard/config"
	"github.com/target/crewboard/internal/observability/statsd"
)

// BuildMetricsSink returns a StatsD client, or nil when metrics are disabled.
// A dial failure is logged and leaves metrics off.
func BuildMetricsSink(cfg config.MetricsConfig, logger *slog.Logger) *statsd.Client {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	logger.Info("metrics enabled", "statsd_address", cfg.StatsdAddress, "prefix", cfg.Prefix)
	return client
}

// sinkOrNil keeps a nil *statsd.Client from becoming a non-nil interface.
func sinkOrNil(c *statsd.Client) statsd.Sink {
	if c == nil {
		return nil
	}
	return c
}
