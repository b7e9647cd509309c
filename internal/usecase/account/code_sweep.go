package account

import (
	"context"
	"time"

	"trusthire/internal/logger"

	"go.uber.org/zap"
)

// StartCodeSweep clears stale verification codes every interval until ctx is
// done. A code is stale once it expired more than grace ago, so recent
// expiries still report CODE_EXPIRED rather than INVALID_CODE.
func (s *Service) StartCodeSweep(ctx context.Context, interval, grace time.Duration) {
	if interval <= 0 {
		logger.Info("Code sweep disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Code sweep started",
		zap.Duration("interval", interval),
		zap.Duration("grace", grace),
	)

	s.sweep(ctx, grace)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Code sweep stopped")
			return
		case <-ticker.C:
			s.sweep(ctx, grace)
		}
	}
}

func (s *Service) sweep(ctx context.Context, grace time.Duration) {
	if _, err := s.SweepExpiredCodes(ctx, time.Now().Add(-grace)); err != nil {
		logger.Error("Failed to clear expired codes", zap.Error(err))
	}
}

// SweepExpiredCodes clears every code that expired before cutoff. The
// accounts stay pending; resend issues a fresh code.
func (s *Service) SweepExpiredCodes(ctx context.Context, cutoff time.Time) (int64, error) {
	cleared, err := s.accounts.ClearExpiredCodes(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if cleared > 0 {
		logger.Info("Expired codes cleared",
			zap.String("event", "otp_codes_swept"),
			zap.Int64("count", cleared),
		)
	}
	return cleared, nil
}
