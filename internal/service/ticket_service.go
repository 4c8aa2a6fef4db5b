package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-stack/grievance-service/internal/domain"
	"github.com/campus-stack/grievance-service/internal/events"
	"github.com/campus-stack/grievance-service/internal/repository"
	apperrors "github.com/campus-stack/grievance-service/pkg/util"
)

// TicketService is the single source of truth for ticket and message
// mutations. Every write funnels through it so activity logging and
// lifecycle invariants stay consistent.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.TicketMessageRepository
	activity   *ActivityService
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.TicketMessageRepository
	Activity    *ActivityService
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
	Location    string
	Attachments []string
}

// MessageCreateInput describes a new thread message.
type MessageCreateInput struct {
	TicketID    string
	Message     string
	IsInternal  bool
	Attachments []string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		activity:   deps.Activity,
		dispatcher: deps.Dispatcher,
	}
}

// Create files a new ticket for the actor. Activity and events fire only
// after the persistence write succeeds.
func (s *TicketService) Create(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	missing := []string{}
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(input.Category) == "" {
		missing = append(missing, "category")
	}
	if input.Priority == "" {
		missing = append(missing, "priority")
	}
	if strings.TrimSpace(input.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		Location:    strings.TrimSpace(input.Location),
		CreatedBy:   actor.ID,
		Attachments: input.Attachments,
	}
	if ticket.Attachments == nil {
		ticket.Attachments = []string{}
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordTicketActivity(ctx, actor, ActionTicketCreated, ticket,
		"New ticket created: "+ticket.Title,
		map[string]any{"category": ticket.Category, "priority": ticket.Priority})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
			Location: ticket.Location,
		},
	})
	return ticket, nil
}

// List returns the tickets the actor may see, newest first. The repository
// listing is role-agnostic; the visibility filter is applied here, on every
// read, so role changes are never served stale.
func (s *TicketService) List(ctx context.Context, actor domain.Actor) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return domain.VisibleTickets(actor, tickets), nil
}

// Get fetches a single ticket and its thread, with internal notes stripped
// for non-privileged actors.
func (s *TicketService) Get(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, []domain.TicketMessage, error) {
	ticket, err := s.getVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, domain.VisibleMessages(actor, msgs), nil
}

// UpdateStatus moves a ticket along the lifecycle. Legality is delegated
// entirely to the lifecycle table. A resolver moving an unassigned pool
// ticket open -> in-progress claims it in the same write: assigned_to is
// null only while the ticket is open.
func (s *TicketService) UpdateStatus(ctx context.Context, actor domain.Actor, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.getVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanTransition(actor, ticket, newStatus); err != nil {
		var te *domain.TransitionError
		if errors.As(err, &te) {
			return nil, apperrors.NewTransitionError(te)
		}
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	switch newStatus {
	case domain.TicketStatusResolved:
		now := time.Now()
		ticket.ResolvedAt = &now
	case domain.TicketStatusClosed:
		// closing keeps the resolution timestamp
	default:
		ticket.ResolvedAt = nil
	}
	if oldStatus == domain.TicketStatusOpen && newStatus == domain.TicketStatusInProgress &&
		actor.Role == domain.RoleResolver && !ticket.Assigned() {
		assignee := actor.ID
		ticket.AssignedTo = &assignee
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordTicketActivity(ctx, actor, ActionStatusChanged, ticket,
		"Ticket status changed from \""+string(oldStatus)+"\" to \""+string(newStatus)+"\"",
		map[string]any{"old_status": oldStatus, "new_status": newStatus})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			CreatedBy: ticket.CreatedBy,
		},
	})
	return ticket, nil
}

// UpdatePriority changes ticket priority. Resolver/admin only.
func (s *TicketService) UpdatePriority(ctx context.Context, actor domain.Actor, ticketID string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if !newPriority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": newPriority})
	}
	if !actor.Role.IsPrivileged() {
		return nil, apperrors.NewForbidden("resolver or admin role required")
	}
	ticket, err := s.getVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	oldPriority := ticket.Priority
	ticket.Priority = newPriority
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordTicketActivity(ctx, actor, ActionPriorityChanged, ticket,
		"Ticket priority changed to "+string(newPriority),
		map[string]any{"old_priority": oldPriority, "new_priority": newPriority})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: newPriority,
		},
	})
	return ticket, nil
}

// Delete removes a ticket permanently. Admin only; message rows cascade.
func (s *TicketService) Delete(ctx context.Context, actor domain.Actor, ticketID string) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.recordTicketActivity(ctx, actor, ActionTicketDeleted, ticket,
		"Ticket deleted: "+ticket.Title,
		map[string]any{"category": ticket.Category})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketDeletedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
		},
	})
	return nil
}

// AddMessage appends a message to a ticket the actor can see. Non-privileged
// actors cannot author internal notes regardless of requested flags.
func (s *TicketService) AddMessage(ctx context.Context, actor domain.Actor, input MessageCreateInput) (*domain.TicketMessage, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	ticket, err := s.getVisible(ctx, actor, input.TicketID)
	if err != nil {
		return nil, err
	}

	isInternal := input.IsInternal
	if !actor.Role.IsPrivileged() {
		isInternal = false
	}

	msg := &domain.TicketMessage{
		TicketID:    ticket.ID,
		UserID:      actor.ID,
		Message:     strings.TrimSpace(input.Message),
		IsInternal:  isInternal,
		Attachments: input.Attachments,
	}
	if msg.Attachments == nil {
		msg.Attachments = []string{}
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordTicketActivity(ctx, actor, ActionMessageAdded, ticket,
		"New message added to ticket",
		map[string]any{"message_id": msg.ID, "is_internal": msg.IsInternal})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketMessageAdded,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketMessageAddedPayload{
			MessageID:  msg.ID,
			AuthorID:   actor.ID,
			IsInternal: msg.IsInternal,
			CreatedBy:  ticket.CreatedBy,
		},
	})
	return msg, nil
}

// getVisible loads a ticket and enforces the visibility filter for the
// actor.
func (s *TicketService) getVisible(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !domain.CanViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

func (s *TicketService) recordTicketActivity(ctx context.Context, actor domain.Actor, action string, ticket *domain.Ticket, description string, metadata map[string]any) {
	ticketID := ticket.ID
	s.activity.Record(ctx, &domain.ActivityLog{
		Action:      action,
		Description: description,
		UserID:      actor.ID,
		TicketID:    &ticketID,
		EntityType:  domain.EntityTypeTicket,
		EntityID:    ticket.ID,
		Metadata:    metadata,
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
