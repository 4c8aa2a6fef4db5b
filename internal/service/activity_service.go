package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-stack/grievance-service/internal/domain"
	"github.com/campus-stack/grievance-service/internal/repository"
	apperrors "github.com/campus-stack/grievance-service/pkg/util"
)

// Activity action identifiers recorded through the log_activity function.
const (
	ActionTicketCreated      = "ticket_created"
	ActionStatusChanged      = "status_changed"
	ActionPriorityChanged    = "priority_changed"
	ActionTicketClaimed      = "ticket_claimed"
	ActionTicketAutoAssigned = "ticket_auto_assigned"
	ActionTicketReassigned   = "ticket_reassigned"
	ActionTicketDeleted      = "ticket_deleted"
	ActionMessageAdded       = "message_added"
	ActionUserCreated        = "user_created"
	ActionUserUpdated        = "user_updated"
	ActionUserDeleted        = "user_deleted"
)

// ActivityService records audit entries after mutations commit and serves
// the admin activity viewer.
type ActivityService struct {
	repo   repository.ActivityLogRepository
	logger *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(repo repository.ActivityLogRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, logger: logger}
}

// Record appends an audit entry. It is invoked only after the backing write
// has committed and is best-effort: a failed append is logged, never
// propagated into the mutation path.
func (s *ActivityService) Record(ctx context.Context, entry *domain.ActivityLog) {
	if s == nil || s.repo == nil {
		return
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		s.logger.Warn("activity log append failed",
			zap.String("action", entry.Action),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err))
	}
}

// List returns activity entries, newest first. Admin only.
func (s *ActivityService) List(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.ActivityLog, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	entries, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}
