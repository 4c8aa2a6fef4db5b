package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-stack/grievance-service/internal/api/dto"
	"github.com/campus-stack/grievance-service/internal/domain"
	"github.com/campus-stack/grievance-service/internal/repository"
	"github.com/campus-stack/grievance-service/internal/service"
	apperrors "github.com/campus-stack/grievance-service/pkg/util"
)

// AdminUsersHandler manages the admin user-management endpoints.
type AdminUsersHandler struct {
	userService *service.UserService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(userService *service.UserService) *AdminUsersHandler {
	return &AdminUsersHandler{userService: userService}
}

// ListUsers GET /admin/users.
func (h *AdminUsersHandler) ListUsers(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c, 100)
	filter := repository.ProfileFilter{Limit: limit, Offset: offset}
	if raw := c.Query("role"); raw != "" {
		role := domain.Role(raw)
		if !role.Valid() {
			return apperrors.NewValidationError("unknown role filter", map[string]any{"role": raw})
		}
		filter.Role = &role
	}
	if raw := c.Query("department"); raw != "" {
		filter.Department = &raw
	}
	profiles, err := h.userService.List(c.Context(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, dto.NewProfileResponse(&profiles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateUser PATCH /admin/users/:id.
func (h *AdminUsersHandler) UpdateUser(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, err := h.userService.Update(c.Context(), actor, c.Params("id"), service.UserUpdateInput{
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// DeleteUser DELETE /admin/users/:id.
func (h *AdminUsersHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.userService.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
