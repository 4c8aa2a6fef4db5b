package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-stack/grievance-service/internal/auth"
	"github.com/campus-stack/grievance-service/internal/domain"
	apperrors "github.com/campus-stack/grievance-service/pkg/util"
)

// requireActor extracts the authenticated actor from the request context.
func requireActor(c *fiber.Ctx) (domain.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return domain.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Actor(), nil
}

// parsePagination reads limit/offset query params with sane defaults.
func parsePagination(c *fiber.Ctx, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
