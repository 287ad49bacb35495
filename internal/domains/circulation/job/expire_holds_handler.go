package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"library-backend/internal/domains/circulation/service"
	"library-backend/pkg/logger"
)

// ExpireHoldsHandler sweeps hold requests whose expiry date has passed.
// Reads already ignore expired rows, so the sweep only reclaims storage
// and keeps listings tidy.
type ExpireHoldsHandler struct {
	circulationService service.ServiceInterface
}

func NewExpireHoldsHandler(circulationService service.ServiceInterface) *ExpireHoldsHandler {
	return &ExpireHoldsHandler{
		circulationService: circulationService,
	}
}

func (h *ExpireHoldsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	deleted, err := h.circulationService.ExpireHolds(ctx)
	if err != nil {
		return fmt.Errorf("expire holds: %w", err)
	}
	if deleted > 0 {
		logger.Info("Removed expired hold requests", map[string]interface{}{
			"deleted_count": deleted,
		})
	}
	return nil
}
