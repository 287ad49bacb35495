package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"library-backend/internal/domains/catalog/model"
	"library-backend/internal/domains/catalog/service"
	"library-backend/pkg/logger"
)

// ProcessCoverHandler resizes an uploaded cover into its variants.
type ProcessCoverHandler struct {
	catalogService service.ServiceInterface
}

func NewProcessCoverHandler(catalogService service.ServiceInterface) *ProcessCoverHandler {
	return &ProcessCoverHandler{
		catalogService: catalogService,
	}
}

func (h *ProcessCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.CoverTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	bookID, err := uuid.Parse(payload.BookID)
	if err != nil {
		return fmt.Errorf("invalid book id %q: %w", payload.BookID, err)
	}

	if err := h.catalogService.ProcessCover(ctx, bookID); err != nil {
		return fmt.Errorf("process cover: %w", err)
	}

	logger.Info("Cover variants generated", map[string]interface{}{
		"book_id": payload.BookID,
	})
	return nil
}
