package domain

import "time"

// ActivityEntityType classifies what an activity entry is about.
type ActivityEntityType string

const (
	EntityTypeTicket ActivityEntityType = "ticket"
	EntityTypeUser   ActivityEntityType = "user"
	EntityTypeSystem ActivityEntityType = "system"
)

// ActivityLog is an append-only audit record produced as a side effect of
// every mutating store operation. Display order is created_at descending.
type ActivityLog struct {
	ID          string
	Action      string
	Description string
	UserID      string
	TicketID    *string
	EntityType  ActivityEntityType
	EntityID    string
	Metadata    map[string]any
	CreatedAt   time.Time
}
