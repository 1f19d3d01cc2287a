package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/website-kz/sentinel/internal/auth/store"
)

// HousekeepingService periodically removes expired and consumed login codes.
// Superseded codes are never invalidated individually — the latest-code rule
// makes them unreachable — so this sweep is what keeps the table bounded.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. A non-positive interval defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts the worker down and blocks until any in-progress sweep finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep immediately on startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep deletes expired and used codes in one transaction.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.LoginCodes().DeleteExpiredLoginCodes(ctx); err != nil {
			return err
		}
		return tx.LoginCodes().DeleteUsedLoginCodes(ctx)
	})
	if err != nil {
		s.Logger.Error("housekeeping sweep failed", "error", err)
		return
	}

	s.Logger.Debug("housekeeping sweep completed")
}
