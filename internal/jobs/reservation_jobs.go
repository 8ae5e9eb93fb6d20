package jobs

import (
	"context"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
)

// CompletePastReservations marks confirmed stays as completed once their check-out day has arrived
func (jr *JobRunner) CompletePastReservations() {
	jr.runWithRecovery("CompletePastReservations", func() {
		ctx := context.Background()

		query := `
			UPDATE reservations
			SET status = 'completed',
			    updated_at = NOW()
			WHERE status = 'confirmed'
			  AND cancelled_at IS NULL
			  AND admin_hidden = FALSE
			  AND end_date <= $1
			RETURNING id, reservation_code, room_id
		`

		rows, err := jr.db.QueryContext(ctx, query, jr.today())
		if err != nil {
			logger.Error("Failed to complete past reservations", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				id, roomID int32
				code       string
			)
			if err := rows.Scan(&id, &code, &roomID); err != nil {
				logger.Error("Failed to scan completed reservation", "error", err)
				continue
			}
			logger.Debug("Marked reservation as completed", "reservation_id", id, "code", code, "room_id", roomID)
			count++
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating completed reservations", "error", err)
			return
		}

		logger.Info("Completed past reservations", "count", count)
	})
}

// SendCheckInReminders emails guests whose active stay begins tomorrow (UTC).
// Walk-in bookings without an account have no address and are skipped.
func (jr *JobRunner) SendCheckInReminders() {
	jr.runWithRecovery("SendCheckInReminders", func() {
		ctx := context.Background()
		tomorrow := jr.today().AddDate(0, 0, 1)

		query := `
			SELECT r.id, r.reservation_code, r.invoice_number, r.full_name, r.guests,
			       r.start_date, r.end_date, r.total_price_cents,
			       u.email,
			       rm.id, rm.room_number, rm.type, rm.name
			FROM reservations r
			JOIN users u ON u.id = r.user_id
			JOIN rooms rm ON rm.id = r.room_id
			WHERE r.start_date = $1
			  AND r.status IN ('pending', 'confirmed')
			  AND r.cancelled_at IS NULL
			  AND r.admin_hidden = FALSE
			ORDER BY r.id
		`

		rows, err := jr.db.QueryContext(ctx, query, tomorrow)
		if err != nil {
			logger.Error("Failed to query upcoming check-ins", "error", err)
			return
		}
		defer rows.Close()

		type reminder struct {
			email string
			res   domain.Reservation
			room  domain.Room
		}
		var reminders []reminder
		for rows.Next() {
			var rm reminder
			if err := rows.Scan(&rm.res.ID, &rm.res.ReservationCode, &rm.res.InvoiceNumber, &rm.res.FullName, &rm.res.Guests,
				&rm.res.StartDate, &rm.res.EndDate, &rm.res.TotalPriceCents,
				&rm.email,
				&rm.room.ID, &rm.room.RoomNumber, &rm.room.Type, &rm.room.Name); err != nil {
				logger.Error("Failed to scan upcoming check-in", "error", err)
				continue
			}
			rm.res.RoomID = rm.room.ID
			rm.res.StartDate = rm.res.StartDate.UTC()
			rm.res.EndDate = rm.res.EndDate.UTC()
			reminders = append(reminders, rm)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating upcoming check-ins", "error", err)
			return
		}

		sent := 0
		for i := range reminders {
			rm := &reminders[i]
			if err := jr.services.Email.SendCheckInReminder(ctx, rm.email, &rm.res, rm.room); err != nil {
				logger.SideEffectFailed(ctx, "check_in_reminder", err, "reservation_id", rm.res.ID)
				continue
			}
			sent++
		}

		logger.Info("Sent check-in reminders", "count", sent, "total", len(reminders))
	})
}
