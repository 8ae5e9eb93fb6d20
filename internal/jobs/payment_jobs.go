package jobs

import (
	"context"

	"hotel-backend/internal/logger"
)

// ReportUnreconciledPayments emails admins every captured payment that did not
// produce a reservation and has not been reported yet. Events stay unreported
// when the email cannot be sent, so the next run picks them up again.
func (jr *JobRunner) ReportUnreconciledPayments() {
	jr.runWithRecovery("ReportUnreconciledPayments", func() {
		ctx := context.Background()

		events, err := jr.store.ListUnreported(ctx)
		if err != nil {
			logger.Error("Failed to list unreconciled payments", "error", err)
			return
		}
		if len(events) == 0 {
			logger.Info("No unreconciled payments to report")
			return
		}

		if err := jr.services.Email.SendReconciliationReport(ctx, events); err != nil {
			logger.Error("Failed to send reconciliation report", "count", len(events), "error", err)
			return
		}

		ids := make([]int32, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		if err := jr.store.MarkReported(ctx, ids, jr.now().UTC()); err != nil {
			logger.Error("Failed to mark payments as reported", "count", len(ids), "error", err)
			return
		}

		logger.Info("Reported unreconciled payments", "count", len(ids))
	})
}
