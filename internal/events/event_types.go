package events

import (
	"time"

	"github.com/campus-stack/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketReassigned      EventType = "ticket_reassigned"
	EventTicketDeleted         EventType = "ticket_deleted"
	EventTicketMessageAdded    EventType = "ticket_message_added"
	EventUserUpdated           EventType = "user_updated"
)

// Event represents a domain event emitted by services after the backing
// persistence write commits.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	TicketID  string       `json:"ticket_id,omitempty"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Category string                `json:"category"`
	Priority domain.TicketPriority `json:"priority"`
	Location string                `json:"location"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	CreatedBy string              `json:"created_by"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketAssignedPayload payload. Auto indicates load-balanced selection;
// Workload is the assignee's open+in-progress count at decision time.
type TicketAssignedPayload struct {
	AssigneeID string `json:"assignee_id"`
	Category   string `json:"category"`
	Auto       bool   `json:"auto"`
	Workload   *int   `json:"workload,omitempty"`
}

// TicketReassignedPayload payload.
type TicketReassignedPayload struct {
	FromResolverID *string `json:"from_resolver_id,omitempty"`
	ToResolverID   string  `json:"to_resolver_id"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID  string `json:"message_id"`
	AuthorID   string `json:"author_id"`
	IsInternal bool   `json:"is_internal"`
	CreatedBy  string `json:"created_by"`
}

// UserUpdatedPayload payload.
type UserUpdatedPayload struct {
	UserID     string      `json:"user_id"`
	Role       domain.Role `json:"role"`
	Department *string     `json:"department,omitempty"`
}
