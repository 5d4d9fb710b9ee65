package worker

import (
	"context"
	"time"

	"github.com/clinicnexus/clinic-api/internal/service/stock"
	"github.com/clinicnexus/clinic-api/pkg/logger"
)

// Sweeper runs the inventory reorder sweep on a fixed interval.
type Sweeper struct {
	stockSvc *stock.Service
	interval time.Duration
	logger   *logger.Logger
}

func NewSweeper(stockSvc *stock.Service, interval time.Duration, logger *logger.Logger) *Sweeper {
	if interval <= 0 {
		panic("sweep interval must be greater than 0")
	}
	return &Sweeper{stockSvc: stockSvc, interval: interval, logger: logger}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("starting inventory sweeper")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down inventory sweeper")
			return
		case <-ticker.C:
			result := s.stockSvc.Sweep(ctx)
			s.logger.Info("inventory sweep finished",
				"checked", result.ItemsChecked,
				"ordered", len(result.Orders),
				"errors", len(result.Errors))
		}
	}
}
