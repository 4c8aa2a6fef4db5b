package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-stack/grievance-service/internal/api/dto"
	"github.com/campus-stack/grievance-service/internal/service"
	apperrors "github.com/campus-stack/grievance-service/pkg/util"
)

// AssignmentsHandler manages claim, auto-assign and reassign endpoints.
type AssignmentsHandler struct {
	service *service.AssignmentService
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(assignmentService *service.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{service: assignmentService}
}

// ClaimTicket POST /tickets/:id/claim.
func (h *AssignmentsHandler) ClaimTicket(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Claim(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AutoAssignTicket POST /tickets/:id/auto-assign.
func (h *AssignmentsHandler) AutoAssignTicket(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.AutoAssign(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ReassignTicket POST /tickets/:id/reassign.
func (h *AssignmentsHandler) ReassignTicket(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ResolverID == "" {
		return apperrors.NewValidationError("resolver_id required", nil)
	}
	ticket, err := h.service.Reassign(c.Context(), actor, c.Params("id"), req.ResolverID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}
