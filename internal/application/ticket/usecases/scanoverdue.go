package usecases

import (
	"context"
	"time"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// OverdueObserver receives the size of each overdue scan.
type OverdueObserver interface {
	SetOverdueTickets(count int)
}

// ScanOverdueUseCase finds tickets past their SLA deadline without a first
// response. It reports and never modifies tickets.
type ScanOverdueUseCase struct {
	ticketRepo ticket.Repository
	observer   OverdueObserver
	logger     logger.Interface
}

func NewScanOverdueUseCase(ticketRepo ticket.Repository, observer OverdueObserver, logger logger.Interface) *ScanOverdueUseCase {
	return &ScanOverdueUseCase{
		ticketRepo: ticketRepo,
		observer:   observer,
		logger:     logger,
	}
}

func (uc *ScanOverdueUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	tickets, err := uc.ticketRepo.ListOverdue(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to scan overdue tickets", "error", err)
		return 0, asAppError(err, "failed to scan overdue tickets")
	}

	if uc.observer != nil {
		uc.observer.SetOverdueTickets(len(tickets))
	}
	for _, t := range tickets {
		uc.logger.Warnw("ticket breached SLA",
			"ticket_id", t.ID(),
			"priority", t.Priority().String(),
			"sla_deadline", t.SLADeadline(),
		)
	}
	if len(tickets) > 0 {
		uc.logger.Infow("overdue scan completed", "overdue", len(tickets))
	}
	return len(tickets), nil
}
