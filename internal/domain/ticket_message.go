package domain

import "time"

// TicketMessage is one entry in a ticket's thread. Messages are append-only;
// nothing mutates or deletes them outside an admin ticket delete, which
// cascades.
type TicketMessage struct {
	ID          string
	TicketID    string
	UserID      string
	Message     string
	IsInternal  bool
	Attachments []string
	CreatedAt   time.Time
}
