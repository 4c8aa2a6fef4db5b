package domain

import "time"

// NotificationType tags what a notification is about.
type NotificationType string

const (
	NotificationTypeAssignment    NotificationType = "assignment"
	NotificationTypeReassignment  NotificationType = "reassignment"
	NotificationTypeStatusChange  NotificationType = "status_change"
	NotificationTypeTicketMessage NotificationType = "message"
)

// Notification is a per-user inbox record. Delivery is fire-and-forget from
// the core's perspective; a failed notification never rolls back the ticket
// mutation it accompanies.
type Notification struct {
	ID        string
	UserID    string
	TicketID  *string
	Title     string
	Message   string
	Type      NotificationType
	Read      bool
	CreatedAt time.Time
}
