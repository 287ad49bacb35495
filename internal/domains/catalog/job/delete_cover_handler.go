package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"library-backend/internal/domains/catalog/model"
	"library-backend/internal/domains/catalog/service"
)

// DeleteCoverHandler drops all cover variants of a deleted book.
type DeleteCoverHandler struct {
	catalogService service.ServiceInterface
}

func NewDeleteCoverHandler(catalogService service.ServiceInterface) *DeleteCoverHandler {
	return &DeleteCoverHandler{
		catalogService: catalogService,
	}
}

func (h *DeleteCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.CoverTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	bookID, err := uuid.Parse(payload.BookID)
	if err != nil {
		return fmt.Errorf("invalid book id %q: %w", payload.BookID, err)
	}

	if err := h.catalogService.DeleteCover(ctx, bookID); err != nil {
		return fmt.Errorf("delete cover: %w", err)
	}

	return nil
}
