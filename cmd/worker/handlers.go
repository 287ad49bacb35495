package main

import (
	"github.com/hibiken/asynq"

	catalogJob "library-backend/internal/domains/catalog/job"
	circulationJob "library-backend/internal/domains/circulation/job"
	"library-backend/internal/shared"
	"library-backend/pkg/container"
)

// handlerRegistry groups the worker task handlers.
type handlerRegistry struct {
	expireHolds  *circulationJob.ExpireHoldsHandler
	overdueScan  *circulationJob.OverdueScanHandler
	processCover *catalogJob.ProcessCoverHandler
	deleteCover  *catalogJob.DeleteCoverHandler
}

func newHandlerRegistry(c *container.Container) *handlerRegistry {
	return &handlerRegistry{
		expireHolds:  circulationJob.NewExpireHoldsHandler(c.CirculationService),
		overdueScan:  circulationJob.NewOverdueScanHandler(c.CirculationService),
		processCover: catalogJob.NewProcessCoverHandler(c.CatalogService),
		deleteCover:  catalogJob.NewDeleteCoverHandler(c.CatalogService),
	}
}

func (r *handlerRegistry) register(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeExpireHolds, r.expireHolds)
	mux.Handle(shared.TypeOverdueScan, r.overdueScan)
	mux.Handle(shared.TypeProcessCoverImage, r.processCover)
	mux.Handle(shared.TypeDeleteCoverImage, r.deleteCover)
}
