package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/petrolea/pedidos-api/internal/pkg/logger"
	"github.com/petrolea/pedidos-api/internal/pkg/metrics"
)

// Pinger wraps the PingContext method.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DBHealthChecker periodically pings the database and keeps the last
// observed state. The HTTP layer reads it for /health.
type DBHealthChecker struct {
	pinger        Pinger
	logger        logger.Logger
	isHealthy     atomic.Bool
	checkInterval time.Duration
	checkTimeout  time.Duration
}

// NewDBHealthChecker creates a new DBHealthChecker. It does not start the monitoring.
func NewDBHealthChecker(pinger Pinger, logger logger.Logger, checkInterval, checkTimeout time.Duration) *DBHealthChecker {
	return &DBHealthChecker{
		pinger:        pinger,
		logger:        logger,
		checkInterval: checkInterval,
		checkTimeout:  checkTimeout,
	}
}

// Start begins the continuous health monitoring in a background goroutine.
// It performs an initial check synchronously to set the initial state.
func (hc *DBHealthChecker) Start(ctx context.Context) {
	hc.checkHealth(ctx)

	go func() {
		ticker := time.NewTicker(hc.checkInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hc.checkHealth(ctx)
			case <-ctx.Done():
				hc.logger.Infow("stopping DB health checker")
				return
			}
		}
	}()
}

// IsHealthy returns the current health status of the database.
func (hc *DBHealthChecker) IsHealthy() bool {
	return hc.isHealthy.Load()
}

func (hc *DBHealthChecker) checkHealth(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, hc.checkTimeout)
	defer cancel()

	err := hc.pinger.PingContext(pingCtx)
	wasHealthy := hc.isHealthy.Load()

	if err != nil {
		if wasHealthy {
			hc.logger.Errorw("database connection lost", "error", err)
		}
		hc.isHealthy.Store(false)
		metrics.DBUptime.Set(0)
		return
	}

	if !wasHealthy {
		hc.logger.Infow("database connection established")
	}
	hc.isHealthy.Store(true)
	metrics.DBUptime.Set(1)
}
