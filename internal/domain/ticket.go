package domain

import "time"

// TicketStatus enumerates lifecycle states for grievance tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is a known lifecycle state.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Well-known grievance categories. Categories double as the resolver
// department key, so the list mirrors the departments resolvers belong to.
const (
	CategoryIT             = "IT"
	CategoryHousekeeping   = "Housekeeping"
	CategoryAcademic       = "Academic"
	CategoryInfrastructure = "Infrastructure"
	CategoryTransport      = "Transport"
	CategoryOther          = "Other"
)

// Ticket is the aggregate for a filed grievance.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Category    string
	Priority    TicketPriority
	Status      TicketStatus
	Location    string
	CreatedBy   string
	AssignedTo  *string
	Attachments []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
}

// Assigned reports whether the ticket has an assignee.
func (t *Ticket) Assigned() bool {
	return t.AssignedTo != nil && *t.AssignedTo != ""
}

// AssignedToActor reports whether the ticket is assigned to the given actor.
func (t *Ticket) AssignedToActor(a Actor) bool {
	return t.AssignedTo != nil && *t.AssignedTo == a.ID
}
