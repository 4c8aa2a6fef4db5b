package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-stack/grievance-service/internal/domain"
	"github.com/campus-stack/grievance-service/internal/events"
	"github.com/campus-stack/grievance-service/internal/repository"
	apperrors "github.com/campus-stack/grievance-service/pkg/util"
)

// workloadStatuses are the states that count toward a resolver's load.
var workloadStatuses = []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress}

// AssignmentService handles ticket assignment: manual claims, load-balanced
// auto-assignment and admin reassignment.
type AssignmentService struct {
	tickets    repository.TicketRepository
	profiles   repository.ProfileRepository
	activity   *ActivityService
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TicketRepo  repository.TicketRepository
	ProfileRepo repository.ProfileRepository
	Activity    *ActivityService
	Dispatcher  events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		profiles:   deps.ProfileRepo,
		activity:   deps.Activity,
		dispatcher: deps.Dispatcher,
	}
}

// Claim lets a resolver take an unassigned open ticket from their pool.
// assigned_to and status commit in a single update; no half-assigned state
// is ever observable.
func (s *AssignmentService) Claim(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	if actor.Role != domain.RoleResolver {
		return nil, apperrors.NewForbidden("resolver role required")
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.Assigned() {
		return nil, apperrors.NewConflict("ticket already assigned", map[string]any{"ticket_id": ticket.ID})
	}
	if err := domain.CanTransition(actor, ticket, domain.TicketStatusInProgress); err != nil {
		var te *domain.TransitionError
		if errors.As(err, &te) {
			return nil, apperrors.NewTransitionError(te)
		}
		return nil, err
	}

	assignee := actor.ID
	ticket.AssignedTo = &assignee
	ticket.Status = domain.TicketStatusInProgress
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordAssignment(ctx, actor, ActionTicketClaimed, ticket,
		"Ticket claimed by resolver",
		map[string]any{"assigned_to": actor.ID, "category": ticket.Category})
	s.publishAssignmentEvent(ctx, actor, ticket, events.TicketAssignedPayload{
		AssigneeID: actor.ID,
		Category:   ticket.Category,
		Auto:       false,
	})
	return ticket, nil
}

// AutoAssign picks the resolver with the lowest open+in-progress workload
// and assigns the ticket to them. Resolvers are enumerated in stable
// creation order, so ties break toward the first encountered, which keeps
// the outcome deterministic for a fixed resolver set.
func (s *AssignmentService) AutoAssign(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	if !actor.Role.IsPrivileged() {
		return nil, apperrors.NewForbidden("resolver or admin role required")
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Assigned() {
		return nil, apperrors.NewConflict("ticket already assigned", map[string]any{"ticket_id": ticket.ID})
	}
	if ticket.Status != domain.TicketStatusOpen {
		return nil, apperrors.NewConflict("ticket is not open", map[string]any{"status": ticket.Status})
	}

	role := domain.RoleResolver
	resolvers, err := s.profiles.List(ctx, repository.ProfileFilter{Role: &role, Limit: 1000})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(resolvers) == 0 {
		return nil, apperrors.NewNoResolverAvailable(ticket.Category)
	}

	var selected *domain.Profile
	selectedLoad := 0
	for i := range resolvers {
		load, err := s.tickets.CountByAssignee(ctx, resolvers[i].ID, workloadStatuses)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if selected == nil || load < selectedLoad {
			selected = &resolvers[i]
			selectedLoad = load
		}
	}

	ticket.AssignedTo = &selected.ID
	ticket.Status = domain.TicketStatusInProgress
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordAssignment(ctx, actor, ActionTicketAutoAssigned, ticket,
		"Ticket automatically assigned to "+selected.Name,
		map[string]any{
			"assigned_to":      selected.ID,
			"assigned_to_name": selected.Name,
			"workload":         selectedLoad,
			"category":         ticket.Category,
		})
	workload := selectedLoad
	s.publishAssignmentEvent(ctx, actor, ticket, events.TicketAssignedPayload{
		AssigneeID: selected.ID,
		Category:   ticket.Category,
		Auto:       true,
		Workload:   &workload,
	})
	return ticket, nil
}

// Reassign moves a ticket from its current assignee to another resolver
// without forcing a status change. Admin only.
func (s *AssignmentService) Reassign(ctx context.Context, actor domain.Actor, ticketID, toResolverID string) (*domain.Ticket, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	target, err := s.profiles.GetByID(ctx, toResolverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("resolver", map[string]any{"resolver_id": toResolverID})
		}
		return nil, apperrors.MapError(err)
	}
	if target.Role != domain.RoleResolver {
		return nil, apperrors.NewValidationError("assignee is not a resolver", map[string]any{"resolver_id": toResolverID})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	from := ticket.AssignedTo
	ticket.AssignedTo = &target.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordAssignment(ctx, actor, ActionTicketReassigned, ticket,
		"Ticket reassigned to "+target.Name,
		map[string]any{"from_resolver": from, "to_resolver": target.ID, "to_name": target.Name})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketReassigned,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketReassignedPayload{
			FromResolverID: from,
			ToResolverID:   target.ID,
		},
	})
	return ticket, nil
}

func (s *AssignmentService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *AssignmentService) recordAssignment(ctx context.Context, actor domain.Actor, action string, ticket *domain.Ticket, description string, metadata map[string]any) {
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

func (s *AssignmentService) publishAssignmentEvent(ctx context.Context, actor domain.Actor, ticket *domain.Ticket, payload events.TicketAssignedPayload) {
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  payload,
	})
}

func (s *AssignmentService) publishEvent(ctx context.Context, event events.Event) {
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
