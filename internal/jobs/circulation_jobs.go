package jobs

import (
	"context"
	"time"

	"libris-backend/internal/logger"
	"libris-backend/internal/policy"
)

// MarkOverdueCheckouts flips checkouts past their due date from active to
// overdue. The return and renewal operations treat overdue as a valid
// pre-return state, so this sweep is the only writer of that transition.
func (jr *JobRunner) MarkOverdueCheckouts() {
	jr.runWithRecovery("MarkOverdueCheckouts", func() {
		ctx := context.Background()

		query := `
			UPDATE checkouts
			SET status = 'overdue',
			    updated_on = NOW()
			WHERE status = 'active'
			  AND due_date < $1
			RETURNING id, patron_id, book_id, due_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now())
		if err != nil {
			logger.Error("Failed to mark overdue checkouts", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, patronID, bookID int32
			var dueDate time.Time
			if err := rows.Scan(&id, &patronID, &bookID, &dueDate); err != nil {
				logger.Error("Failed to scan overdue checkout", "error", err)
				continue
			}
			count++
			logger.Debug("Marked checkout as overdue",
				"checkout_id", id,
				"patron_id", patronID,
				"book_id", bookID,
				"due_date", dueDate.Format("2006-01-02"))
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue checkouts", "error", err)
			return
		}

		logger.Info("Marked checkouts as overdue", "count", count)
	})
}

// SendOverdueReminders emails every patron holding an overdue item. Email
// failures are logged per checkout and never stop the sweep.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		now := time.Now()

		checkouts, patrons, err := jr.store.ListOverdue(ctx, now)
		if err != nil {
			logger.Error("Failed to list overdue checkouts", "error", err)
			return
		}

		sent := 0
		for i, c := range checkouts {
			p := patrons[i]
			if p.Email == "" {
				continue
			}
			fineSoFar := policy.OverdueFine(c.DueDate, now)
			if err := jr.emailSvc.SendOverdueReminder(ctx, p.Email, p.Name, c.BookTitle, c.DueDate, fineSoFar); err != nil {
				logger.Error("Failed to send overdue reminder",
					"checkout_id", c.ID, "patron_id", p.ID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Sent overdue reminders", "overdue", len(checkouts), "sent", sent)
	})
}

// ReconcileCounters repairs denormalized patron counters from source rows.
func (jr *JobRunner) ReconcileCounters() {
	jr.runWithRecovery("ReconcileCounters", func() {
		corrected, err := jr.store.ReconcilePatronCounters(context.Background())
		if err != nil {
			logger.Error("Failed to reconcile patron counters", "error", err)
			return
		}
		if corrected > 0 {
			logger.Warn("Patron counters drifted and were repaired", "patrons", corrected)
		} else {
			logger.Info("Patron counters consistent", "patrons_corrected", 0)
		}
	})
}
