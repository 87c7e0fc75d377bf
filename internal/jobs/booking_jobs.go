package jobs

import (
	"context"

	"rentalops-backend/internal/logger"
)

// SweepBookingStatuses advances booking and car statuses for the new day:
// ended rentals are completed, due upcoming bookings become active, and
// stranded Rented cars are released.
func (jr *JobRunner) SweepBookingStatuses() {
	jr.runWithRecovery("SweepBookingStatuses", func() {
		ctx := context.Background()
		if err := jr.services.Sweeper.Sweep(ctx); err != nil {
			logger.Error("Failed to sweep booking statuses", "error", err)
		}
	})
}

// MarkOverduePayments flips Pending payments past their due date to Overdue.
func (jr *JobRunner) MarkOverduePayments() {
	jr.runWithRecovery("MarkOverduePayments", func() {
		ctx := context.Background()
		count, err := jr.services.Sweeper.MarkOverduePayments(ctx)
		if err != nil {
			logger.Error("Failed to mark overdue payments", "error", err)
			return
		}
		logger.Info("Marked payments as overdue", "count", count)
	})
}
