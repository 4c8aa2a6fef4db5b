package dto

import (
	"time"

	"github.com/campus-stack/grievance-service/internal/domain"
)

// NotificationResponse represents an inbox entry.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	TicketID  *string                 `json:"ticket_id,omitempty"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      domain.NotificationType `json:"type"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

// NewNotificationResponse maps a domain notification.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		TicketID:  n.TicketID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// ActivityLogResponse represents an audit entry for the admin viewer.
type ActivityLogResponse struct {
	ID          string                    `json:"id"`
	Action      string                    `json:"action"`
	Description string                    `json:"description"`
	UserID      string                    `json:"user_id"`
	TicketID    *string                   `json:"ticket_id,omitempty"`
	EntityType  domain.ActivityEntityType `json:"entity_type"`
	EntityID    string                    `json:"entity_id"`
	Metadata    map[string]any            `json:"metadata,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// NewActivityLogResponse maps a domain activity entry.
func NewActivityLogResponse(entry *domain.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:          entry.ID,
		Action:      entry.Action,
		Description: entry.Description,
		UserID:      entry.UserID,
		TicketID:    entry.TicketID,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Metadata:    entry.Metadata,
		CreatedAt:   entry.CreatedAt,
	}
}
