package jobs

import (
	"context"
	"fmt"

	"vehicle-rental-backend/internal/logger"
)

// MarkOverdueRents flags active rents whose scheduled end has passed. The
// transport stays locked until the rent is ended.
func (jr *JobRunner) MarkOverdueRents() {
	jr.runWithRecovery("MarkOverdueRents", func(ctx context.Context) error {
		_, err := jr.markOverdueRents(ctx)
		return err
	})
}

func (jr *JobRunner) markOverdueRents(ctx context.Context) (int, error) {
	now := jr.now().UTC()
	overdue, err := jr.rents.MarkOverdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("mark overdue rents: %w", err)
	}

	for _, rent := range overdue {
		logger.DebugContext(ctx, "Marked rent as overdue",
			"rent_id", rent.ID,
			"renter_id", rent.RenterUserID,
			"transport_id", rent.TransportID,
			"end_time", rent.EndTime)
	}
	logger.InfoContext(ctx, "Marked rents as overdue", "count", len(overdue))
	return len(overdue), nil
}
