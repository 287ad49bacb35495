package model

// CoverTaskPayload is the payload for the cover processing and deletion
// tasks. The image itself stays in object storage; only the book id
// travels through the queue.
type CoverTaskPayload struct {
	BookID string `json:"book_id"`
}
