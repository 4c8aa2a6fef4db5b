package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-stack/grievance-service/internal/config"
	"github.com/campus-stack/grievance-service/internal/domain"
	"github.com/campus-stack/grievance-service/internal/events"
)

type notificationFixture struct {
	svc        *NotificationService
	repo       *fakeNotificationRepo
	dispatcher events.Dispatcher
}

func newNotificationFixture() *notificationFixture {
	repo := newFakeNotificationRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(repo, dispatcher, nil, zap.NewNop(), config.NotificationConfig{})
	svc.RegisterHandlers()
	return &notificationFixture{svc: svc, repo: repo, dispatcher: dispatcher}
}

func publish(t *testing.T, f *notificationFixture, eventType events.EventType, actor domain.Actor, payload any) {
	t.Helper()
	require.NoError(t, f.dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      eventType,
		TicketID:  "ticket-1",
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	}))
}

func TestNotifyOnAssignment(t *testing.T) {
	f := newNotificationFixture()
	publish(t, f, events.EventTicketAssigned, adminActor("adm-1"), events.TicketAssignedPayload{
		AssigneeID: "res-1",
		Category:   domain.CategoryIT,
		Auto:       false,
	})

	inbox, err := f.svc.ListForUser(context.Background(), domain.Actor{ID: "res-1", Role: domain.RoleResolver}, 50, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationTypeAssignment, inbox[0].Type)
	require.NotNil(t, inbox[0].TicketID)
	assert.Equal(t, "ticket-1", *inbox[0].TicketID)
}

func TestNotifySkipsSelfClaim(t *testing.T) {
	f := newNotificationFixture()
	resolver := resolverFor("res-1", domain.CategoryIT)
	publish(t, f, events.EventTicketAssigned, resolver, events.TicketAssignedPayload{
		AssigneeID: "res-1",
		Category:   domain.CategoryIT,
	})

	inbox, err := f.svc.ListForUser(context.Background(), resolver, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, inbox, "claiming your own ticket never notifies you")
}

func TestNotifyOnStatusChange(t *testing.T) {
	f := newNotificationFixture()
	resolver := resolverFor("res-1", domain.CategoryIT)

	publish(t, f, events.EventTicketStatusChanged, resolver, events.TicketStatusChangedPayload{
		OldStatus: domain.TicketStatusOpen,
		NewStatus: domain.TicketStatusInProgress,
		CreatedBy: "stu-1",
	})
	// the creator moving their own ticket stays silent
	publish(t, f, events.EventTicketStatusChanged, studentActor("stu-1"), events.TicketStatusChangedPayload{
		OldStatus: domain.TicketStatusResolved,
		NewStatus: domain.TicketStatusClosed,
		CreatedBy: "stu-1",
	})

	inbox, err := f.svc.ListForUser(context.Background(), studentActor("stu-1"), 50, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationTypeStatusChange, inbox[0].Type)
}

func TestNotifyOnMessage(t *testing.T) {
	f := newNotificationFixture()
	resolver := resolverFor("res-1", domain.CategoryIT)

	publish(t, f, events.EventTicketMessageAdded, resolver, events.TicketMessageAddedPayload{
		MessageID: "msg-1",
		AuthorID:  "res-1",
		CreatedBy: "stu-1",
	})
	// internal notes never reach the creator
	publish(t, f, events.EventTicketMessageAdded, resolver, events.TicketMessageAddedPayload{
		MessageID:  "msg-2",
		AuthorID:   "res-1",
		IsInternal: true,
		CreatedBy:  "stu-1",
	})
	// the creator's own messages stay silent
	publish(t, f, events.EventTicketMessageAdded, studentActor("stu-1"), events.TicketMessageAddedPayload{
		MessageID: "msg-3",
		AuthorID:  "stu-1",
		CreatedBy: "stu-1",
	})

	inbox, err := f.svc.ListForUser(context.Background(), studentActor("stu-1"), 50, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationTypeTicketMessage, inbox[0].Type)
}

func TestInboxOperations(t *testing.T) {
	f := newNotificationFixture()
	student := studentActor("stu-1")
	other := studentActor("stu-2")
	resolver := resolverFor("res-1", domain.CategoryIT)

	for i := 0; i < 3; i++ {
		publish(t, f, events.EventTicketStatusChanged, resolver, events.TicketStatusChangedPayload{
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusInProgress,
			CreatedBy: "stu-1",
		})
	}

	count, err := f.svc.UnreadCount(context.Background(), student)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	inbox, err := f.svc.ListForUser(context.Background(), student, 50, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 3)

	require.NoError(t, f.svc.MarkRead(context.Background(), student, inbox[0].ID))
	count, err = f.svc.UnreadCount(context.Background(), student)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	t.Run("cannot touch another user's inbox", func(t *testing.T) {
		err := f.svc.MarkRead(context.Background(), other, inbox[1].ID)
		assertCode(t, err, "NOT_FOUND")
		err = f.svc.Delete(context.Background(), other, inbox[1].ID)
		assertCode(t, err, "NOT_FOUND")
	})

	require.NoError(t, f.svc.MarkAllRead(context.Background(), student))
	count, err = f.svc.UnreadCount(context.Background(), student)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, f.svc.Delete(context.Background(), student, inbox[2].ID))
	inbox, err = f.svc.ListForUser(context.Background(), student, 50, 0)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)
}

func TestNotificationStoreFailureIsSwallowed(t *testing.T) {
	f := newNotificationFixture()
	f.repo.fail = assert.AnError

	publish(t, f, events.EventTicketAssigned, adminActor("adm-1"), events.TicketAssignedPayload{
		AssigneeID: "res-1",
		Category:   domain.CategoryIT,
	})
}
