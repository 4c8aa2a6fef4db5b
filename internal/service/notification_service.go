package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-stack/grievance-service/internal/config"
	"github.com/campus-stack/grievance-service/internal/domain"
	"github.com/campus-stack/grievance-service/internal/events"
	"github.com/campus-stack/grievance-service/internal/persistence"
	"github.com/campus-stack/grievance-service/internal/repository"
	apperrors "github.com/campus-stack/grievance-service/pkg/util"
)

// NotificationService turns domain events into per-user notifications and
// serves the inbox. Delivery is fire-and-forget: a failure here never rolls
// back the mutation that triggered it.
type NotificationService struct {
	repo       repository.NotificationRepository
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(repo repository.NotificationRepository, dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		repo:       repo,
		dispatcher: dispatcher,
		redis:      redis,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to the events that produce notifications.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketReassigned, n.handleTicketReassigned)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketMessageAdded, n.handleTicketMessageAdded)
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	// a resolver claiming for themselves needs no inbox entry
	if payload.AssigneeID == event.Actor.ID {
		return nil
	}
	message := fmt.Sprintf("You have been assigned a new %s ticket", payload.Category)
	title := "New Ticket Assigned"
	if payload.Auto {
		message = fmt.Sprintf("You have been automatically assigned a new %s ticket", payload.Category)
	}
	n.store(ctx, &domain.Notification{
		UserID:   payload.AssigneeID,
		TicketID: &event.TicketID,
		Title:    title,
		Message:  message,
		Type:     domain.NotificationTypeAssignment,
	})
	return nil
}

func (n *NotificationService) handleTicketReassigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketReassignedPayload)
	if !ok {
		return nil
	}
	n.store(ctx, &domain.Notification{
		UserID:   payload.ToResolverID,
		TicketID: &event.TicketID,
		Title:    "Ticket Reassigned to You",
		Message:  "A ticket has been reassigned to you",
		Type:     domain.NotificationTypeReassignment,
	})
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	// the creator already knows about changes they made themselves
	if payload.CreatedBy == event.Actor.ID {
		return nil
	}
	n.store(ctx, &domain.Notification{
		UserID:   payload.CreatedBy,
		TicketID: &event.TicketID,
		Title:    "Ticket Status Updated",
		Message:  fmt.Sprintf("Your ticket status changed to %s", payload.NewStatus),
		Type:     domain.NotificationTypeStatusChange,
	})
	return nil
}

func (n *NotificationService) handleTicketMessageAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketMessageAddedPayload)
	if !ok {
		return nil
	}
	// internal notes never notify the ticket creator
	if payload.IsInternal || payload.CreatedBy == payload.AuthorID {
		return nil
	}
	n.store(ctx, &domain.Notification{
		UserID:   payload.CreatedBy,
		TicketID: &event.TicketID,
		Title:    "New Message",
		Message:  "A new message was added to your ticket",
		Type:     domain.NotificationTypeTicketMessage,
	})
	return nil
}

// store persists the notification and publishes it on the realtime channel.
// Both steps are best-effort.
func (n *NotificationService) store(ctx context.Context, notification *domain.Notification) {
	if err := n.repo.Create(ctx, notification); err != nil {
		n.logger.Warn("notification store failed",
			zap.String("user_id", notification.UserID),
			zap.Error(err))
		return
	}
	n.publish(ctx, notification)
}

func (n *NotificationService) publish(ctx context.Context, notification *domain.Notification) {
	if n.redis == nil || n.cfg.RedisChannel == "" {
		return
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		return
	}
	if err := n.redis.Publish(ctx, n.cfg.RedisChannel, payload); err != nil {
		n.logger.Debug("notification publish failed", zap.Error(err))
	}
}

// ListForUser returns the actor's notifications, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Notification, error) {
	result, err := n.repo.ListByUser(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// UnreadCount returns the actor's unread notification count.
func (n *NotificationService) UnreadCount(ctx context.Context, actor domain.Actor) (int, error) {
	count, err := n.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// MarkRead marks one of the actor's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, notificationID string) error {
	return apperrors.MapError(n.repo.MarkRead(ctx, notificationID, actor.ID))
}

// MarkAllRead marks all of the actor's notifications as read.
func (n *NotificationService) MarkAllRead(ctx context.Context, actor domain.Actor) error {
	return apperrors.MapError(n.repo.MarkAllRead(ctx, actor.ID))
}

// Delete removes one of the actor's notifications.
func (n *NotificationService) Delete(ctx context.Context, actor domain.Actor, notificationID string) error {
	return apperrors.MapError(n.repo.Delete(ctx, notificationID, actor.ID))
}
