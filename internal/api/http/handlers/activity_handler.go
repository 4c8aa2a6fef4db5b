package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-stack/grievance-service/internal/api/dto"
	"github.com/campus-stack/grievance-service/internal/service"
)

// ActivityHandler exposes the admin activity log viewer.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: activityService}
}

// ListActivity GET /admin/activity.
func (h *ActivityHandler) ListActivity(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c, 100)
	entries, err := h.service.List(c.Context(), actor, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ActivityLogResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewActivityLogResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
