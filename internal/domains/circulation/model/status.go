package model

// BookStatus is the status label shown to a reader (or anonymous) viewer.
// The viewer's own relationship to the book takes precedence over the
// aggregate capacity signal.
type BookStatus string

const (
	BookStatusAvailable   BookStatus = "available"
	BookStatusBorrowing   BookStatus = "borrowing"
	BookStatusHolding     BookStatus = "holding"
	BookStatusUnavailable BookStatus = "unavailable"
)

// Availability is the raw view returned to staff instead of a status label.
type Availability struct {
	CopiesCount   int `json:"copies_count"`
	ActiveBorrows int `json:"active_borrows"`
	ActiveHolds   int `json:"active_holds"`
}

// Free returns the number of copies not consumed by borrows or holds.
func (a Availability) Free() int {
	return a.CopiesCount - a.ActiveBorrows - a.ActiveHolds
}
