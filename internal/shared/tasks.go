package shared

// Task type names and queue names shared between the API, the scheduler
// and the worker handlers.
const (
	TypeExpireHolds       = "circulation:expire_holds"
	TypeOverdueScan       = "circulation:overdue_scan"
	TypeProcessCoverImage = "catalog:process_cover"
	TypeDeleteCoverImage  = "catalog:delete_cover"

	QueueCirculation = "circulation"
	QueueCatalog     = "catalog"
)
