package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"library-backend/internal/domains/circulation/service"
	"library-backend/pkg/logger"
)

// OverdueScanHandler logs open borrows past their due date. Overdue is a
// derived state, never written back; the scan only surfaces it for staff
// follow-up.
type OverdueScanHandler struct {
	circulationService service.ServiceInterface
}

func NewOverdueScanHandler(circulationService service.ServiceInterface) *OverdueScanHandler {
	return &OverdueScanHandler{
		circulationService: circulationService,
	}
}

func (h *OverdueScanHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	overdue, err := h.circulationService.ListOverdueBorrows(ctx)
	if err != nil {
		return fmt.Errorf("overdue scan: %w", err)
	}

	for _, b := range overdue {
		logger.Warn("Borrow is overdue", map[string]interface{}{
			"borrow_id": b.ID.String(),
			"reader_id": b.ReaderID.String(),
			"book_id":   b.BookID.String(),
			"due_date":  b.DueDate,
		})
	}

	logger.Info("Completed overdue scan", map[string]interface{}{
		"overdue_count": len(overdue),
	})
	return nil
}
