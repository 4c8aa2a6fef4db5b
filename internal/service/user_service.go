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

// UserService handles profile reads and admin user management.
type UserService struct {
	profiles   repository.ProfileRepository
	activity   *ActivityService
	dispatcher events.Dispatcher
}

// UserUpdateInput describes an admin edit of a user's role/department.
type UserUpdateInput struct {
	Role       *domain.Role
	Department *string
}

// NewUserService constructs the service.
func NewUserService(profiles repository.ProfileRepository, activity *ActivityService, dispatcher events.Dispatcher) *UserService {
	return &UserService{profiles: profiles, activity: activity, dispatcher: dispatcher}
}

// GetProfile returns a stored profile by id.
func (s *UserService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// UpdateSelf lets any user change their own display name. Role and
// department stay admin-controlled.
func (s *UserService) UpdateSelf(ctx context.Context, actor domain.Actor, name string) (*domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	profile, err := s.GetProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	profile.Name = name
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.activity.Record(ctx, &domain.ActivityLog{
		Action:      ActionUserUpdated,
		Description: "Profile name updated",
		UserID:      actor.ID,
		EntityType:  domain.EntityTypeUser,
		EntityID:    profile.ID,
		Metadata:    map[string]any{"name": name},
	})
	return profile, nil
}

// List returns profiles matching the filter. Admin only.
func (s *UserService) List(ctx context.Context, actor domain.Actor, filter repository.ProfileFilter) ([]domain.Profile, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	profiles, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return profiles, nil
}

// Update edits a user's role and/or department. Admin only; role and
// department are the only fields an admin may change on someone else.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, userID string, input UserUpdateInput) (*domain.Profile, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
	}
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldRole := profile.Role
	if input.Role != nil {
		profile.Role = *input.Role
	}
	if input.Department != nil {
		if *input.Department == "" {
			profile.Department = nil
		} else {
			profile.Department = input.Department
		}
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.activity.Record(ctx, &domain.ActivityLog{
		Action:      ActionUserUpdated,
		Description: "User role or department updated",
		UserID:      actor.ID,
		EntityType:  domain.EntityTypeUser,
		EntityID:    profile.ID,
		Metadata: map[string]any{
			"old_role":   oldRole,
			"new_role":   profile.Role,
			"department": profile.Department,
		},
	})
	s.publishEvent(ctx, events.Event{
		Type:  events.EventUserUpdated,
		Actor: actor,
		Payload: events.UserUpdatedPayload{
			UserID:     profile.ID,
			Role:       profile.Role,
			Department: profile.Department,
		},
	})
	return profile, nil
}

// Delete removes a user account. Admin only; admins cannot delete
// themselves.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, userID string) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	if actor.ID == userID {
		return apperrors.NewValidationError("cannot delete own account", nil)
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	s.activity.Record(ctx, &domain.ActivityLog{
		Action:      ActionUserDeleted,
		Description: "User account deleted",
		UserID:      actor.ID,
		EntityType:  domain.EntityTypeUser,
		EntityID:    userID,
	})
	return nil
}

func (s *UserService) publishEvent(ctx context.Context, event events.Event) {
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
