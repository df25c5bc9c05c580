package inject

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"portablesource/internal/config"
	"portablesource/pkg/app"
	"portablesource/pkg/log"
	"portablesource/pkg/metrics"
)

// Run builds the application and passes it to fn. The run metrics are
// written to cfg.MetricsFile afterwards when it is set.
func Run(ctx context.Context, cfg *config.Config, fn func(context.Context, *app.App) error) error {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	ports, err := InitializePorts(cfg, m)
	if err != nil {
		return fmt.Errorf("initializing ports: %w", err)
	}

	application := InitializeApp(cfg, ports, m)

	defer func() {
		if cfg.MetricsFile == "" {
			return
		}

		if err := metrics.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			log.GetLogger(ctx).WithError(err).Warn("could not write metrics")
		}
	}()

	return fn(ctx, &application)
}
