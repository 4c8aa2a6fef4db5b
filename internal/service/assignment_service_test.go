package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-stack/grievance-service/internal/domain"
	"github.com/campus-stack/grievance-service/internal/events"
	apperrors "github.com/campus-stack/grievance-service/pkg/util"
)

type assignmentFixture struct {
	svc        *AssignmentService
	tickets    *fakeTicketRepo
	profiles   *fakeProfileRepo
	activity   *fakeActivityRepo
	dispatcher *recordingDispatcher
}

func newAssignmentFixture() *assignmentFixture {
	tickets := newFakeTicketRepo()
	profiles := newFakeProfileRepo()
	activity := newFakeActivityRepo()
	dispatcher := newRecordingDispatcher()
	svc := NewAssignmentService(AssignmentDependencies{
		TicketRepo:  tickets,
		ProfileRepo: profiles,
		Activity:    newTestActivityService(activity),
		Dispatcher:  dispatcher,
	})
	return &assignmentFixture{svc: svc, tickets: tickets, profiles: profiles, activity: activity, dispatcher: dispatcher}
}

func (f *assignmentFixture) addResolver(t *testing.T, id, name, dept string) {
	t.Helper()
	department := dept
	require.NoError(t, f.profiles.Create(context.Background(), &domain.Profile{
		ID:         id,
		Name:       name,
		Email:      id + "@campus.test",
		Role:       domain.RoleResolver,
		Department: &department,
	}))
}

func (f *assignmentFixture) addOpenTicket(t *testing.T, category, createdBy string) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		Title:       "Wifi down in block C",
		Description: "No connectivity since morning",
		Category:    category,
		Priority:    domain.TicketPriorityMedium,
		Status:      domain.TicketStatusOpen,
		Location:    "Block C",
		CreatedBy:   createdBy,
		Attachments: []string{},
	}
	require.NoError(t, f.tickets.Create(context.Background(), ticket))
	return ticket
}

func (f *assignmentFixture) addAssignedTicket(t *testing.T, assigneeID string, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ticket := f.addOpenTicket(t, domain.CategoryIT, "stu-9")
	ticket.AssignedTo = &assigneeID
	ticket.Status = status
	require.NoError(t, f.tickets.Update(context.Background(), ticket))
	return ticket
}

func TestClaim(t *testing.T) {
	f := newAssignmentFixture()
	resolver := resolverFor("res-1", domain.CategoryIT)
	ticket := f.addOpenTicket(t, domain.CategoryIT, "stu-1")

	claimed, err := f.svc.Claim(context.Background(), resolver, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, claimed.Status)
	require.NotNil(t, claimed.AssignedTo)
	assert.Equal(t, "res-1", *claimed.AssignedTo)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
	require.NotNil(t, stored.AssignedTo, "assignment and status commit together")

	assert.Equal(t, []string{ActionTicketClaimed}, f.activity.actions())
	assert.Equal(t, []events.EventType{events.EventTicketAssigned}, f.dispatcher.eventTypes())
}

func TestClaimRefusals(t *testing.T) {
	f := newAssignmentFixture()
	resolver := resolverFor("res-1", domain.CategoryIT)

	t.Run("non-resolver refused", func(t *testing.T) {
		ticket := f.addOpenTicket(t, domain.CategoryIT, "stu-1")
		_, err := f.svc.Claim(context.Background(), adminActor("adm-1"), ticket.ID)
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("already assigned is a conflict", func(t *testing.T) {
		ticket := f.addAssignedTicket(t, "res-2", domain.TicketStatusInProgress)
		_, err := f.svc.Claim(context.Background(), resolver, ticket.ID)
		assertCode(t, err, "FORBIDDEN") // assigned elsewhere means out of the pool, hence invisible
	})

	t.Run("wrong department refused", func(t *testing.T) {
		ticket := f.addOpenTicket(t, domain.CategoryTransport, "stu-1")
		_, err := f.svc.Claim(context.Background(), resolver, ticket.ID)
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("missing ticket", func(t *testing.T) {
		_, err := f.svc.Claim(context.Background(), resolver, "no-such-ticket")
		assertCode(t, err, "NOT_FOUND")
	})
}

func TestAutoAssignPicksLowestWorkload(t *testing.T) {
	f := newAssignmentFixture()
	f.addResolver(t, "res-a", "Asha", domain.CategoryIT)
	f.addResolver(t, "res-b", "Bhanu", domain.CategoryIT)
	f.addResolver(t, "res-c", "Chitra", domain.CategoryIT)

	// workloads: res-a=3, res-b=1, res-c=2
	for i := 0; i < 3; i++ {
		f.addAssignedTicket(t, "res-a", domain.TicketStatusInProgress)
	}
	f.addAssignedTicket(t, "res-b", domain.TicketStatusInProgress)
	f.addAssignedTicket(t, "res-c", domain.TicketStatusInProgress)
	f.addAssignedTicket(t, "res-c", domain.TicketStatusOpen)

	ticket := f.addOpenTicket(t, domain.CategoryIT, "stu-1")
	assigned, err := f.svc.AutoAssign(context.Background(), adminActor("adm-1"), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, "res-b", *assigned.AssignedTo)
	assert.Equal(t, domain.TicketStatusInProgress, assigned.Status)
}

func TestAutoAssignIgnoresSettledTickets(t *testing.T) {
	f := newAssignmentFixture()
	f.addResolver(t, "res-a", "Asha", domain.CategoryIT)
	f.addResolver(t, "res-b", "Bhanu", domain.CategoryIT)

	// resolved and closed tickets do not count toward load
	f.addAssignedTicket(t, "res-a", domain.TicketStatusResolved)
	f.addAssignedTicket(t, "res-a", domain.TicketStatusClosed)
	f.addAssignedTicket(t, "res-b", domain.TicketStatusInProgress)

	ticket := f.addOpenTicket(t, domain.CategoryIT, "stu-1")
	assigned, err := f.svc.AutoAssign(context.Background(), adminActor("adm-1"), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "res-a", *assigned.AssignedTo)
}

func TestAutoAssignTieBreaksTowardOldestResolver(t *testing.T) {
	f := newAssignmentFixture()
	f.addResolver(t, "res-old", "Asha", domain.CategoryIT)
	f.addResolver(t, "res-new", "Bhanu", domain.CategoryIT)

	ticket := f.addOpenTicket(t, domain.CategoryIT, "stu-1")
	assigned, err := f.svc.AutoAssign(context.Background(), adminActor("adm-1"), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "res-old", *assigned.AssignedTo, "equal workloads settle on the first enumerated resolver")
}

func TestAutoAssignRefusals(t *testing.T) {
	f := newAssignmentFixture()

	t.Run("empty pool", func(t *testing.T) {
		ticket := f.addOpenTicket(t, domain.CategoryIT, "stu-1")
		_, err := f.svc.AutoAssign(context.Background(), adminActor("adm-1"), ticket.ID)
		var derr *apperrors.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "NO_RESOLVER_AVAILABLE", derr.Code)

		stored, getErr := f.tickets.GetByID(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		assert.Nil(t, stored.AssignedTo, "failed assignment leaves the ticket untouched")
		assert.Equal(t, domain.TicketStatusOpen, stored.Status)
	})

	f.addResolver(t, "res-a", "Asha", domain.CategoryIT)

	t.Run("student refused", func(t *testing.T) {
		ticket := f.addOpenTicket(t, domain.CategoryIT, "stu-1")
		_, err := f.svc.AutoAssign(context.Background(), studentActor("stu-1"), ticket.ID)
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("already assigned", func(t *testing.T) {
		ticket := f.addAssignedTicket(t, "res-a", domain.TicketStatusInProgress)
		_, err := f.svc.AutoAssign(context.Background(), adminActor("adm-1"), ticket.ID)
		assertCode(t, err, "CONFLICT")
	})

	t.Run("not open", func(t *testing.T) {
		ticket := f.addOpenTicket(t, domain.CategoryIT, "stu-1")
		ticket.Status = domain.TicketStatusClosed
		require.NoError(t, f.tickets.Update(context.Background(), ticket))
		_, err := f.svc.AutoAssign(context.Background(), adminActor("adm-1"), ticket.ID)
		assertCode(t, err, "CONFLICT")
	})
}

func TestReassign(t *testing.T) {
	f := newAssignmentFixture()
	f.addResolver(t, "res-a", "Asha", domain.CategoryIT)
	f.addResolver(t, "res-b", "Bhanu", domain.CategoryIT)
	ticket := f.addAssignedTicket(t, "res-a", domain.TicketStatusInProgress)

	reassigned, err := f.svc.Reassign(context.Background(), adminActor("adm-1"), ticket.ID, "res-b")
	require.NoError(t, err)
	assert.Equal(t, "res-b", *reassigned.AssignedTo)
	assert.Equal(t, domain.TicketStatusInProgress, reassigned.Status, "reassignment never touches status")

	assert.Equal(t, []events.EventType{events.EventTicketReassigned}, f.dispatcher.eventTypes())
}

func TestReassignRefusals(t *testing.T) {
	f := newAssignmentFixture()
	f.addResolver(t, "res-a", "Asha", domain.CategoryIT)
	require.NoError(t, f.profiles.Create(context.Background(), &domain.Profile{
		ID:    "stu-5",
		Name:  "Dev",
		Email: "dev@campus.test",
		Role:  domain.RoleStudent,
	}))
	ticket := f.addAssignedTicket(t, "res-a", domain.TicketStatusInProgress)

	t.Run("non-admin refused", func(t *testing.T) {
		_, err := f.svc.Reassign(context.Background(), resolverFor("res-a", domain.CategoryIT), ticket.ID, "res-a")
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := f.svc.Reassign(context.Background(), adminActor("adm-1"), ticket.ID, "res-missing")
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("target must be a resolver", func(t *testing.T) {
		_, err := f.svc.Reassign(context.Background(), adminActor("adm-1"), ticket.ID, "stu-5")
		assertCode(t, err, "VALIDATION_FAILED")
	})
}
