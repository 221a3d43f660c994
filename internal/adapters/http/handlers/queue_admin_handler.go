package handlers

import (
	"shopserve/internal/adapters/http/middleware"
	"shopserve/internal/core/domain"
	"shopserve/internal/core/services"
	"shopserve/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// QueueAdminHandler handles counter-staff and administrator queue endpoints
type QueueAdminHandler struct {
	queueService *services.QueueService
}

// NewQueueAdminHandler creates a new queue admin handler
func NewQueueAdminHandler(queueService *services.QueueService) *QueueAdminHandler {
	return &QueueAdminHandler{
		queueService: queueService,
	}
}

// ============================================================
// Call & Serve
// ============================================================

// CallNext assigns the highest-ranked waiting customer to a counter
// @Summary Call next customer
// @Tags Queue Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Counter ID"
// @Success 200 {object} response.Response{data=domain.QueueEntry}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /queue/counters/{id}/call-next [post]
func (h *QueueAdminHandler) CallNext(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	counterID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	entry, err := h.queueService.CallNext(c.UserContext(), counterID, actor)
	if err != nil {
		return handleError(c, err)
	}
	if entry == nil {
		return response.Success(c, "Queue is empty", nil)
	}
	return response.Success(c, "Customer called", entry)
}

// POST /api/v1/queue/counters/:id/call/:entryId: call a chosen customer
func (h *QueueAdminHandler) CallSpecific(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	counterID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	entryID, err := parseID(c, "entryId")
	if err != nil {
		return handleError(c, err)
	}

	entry, err := h.queueService.CallSpecificCustomer(c.UserContext(), entryID, counterID, actor)
	if err != nil {
		return handleError(c, err)
	}
	if entry == nil {
		return response.NotFound(c, "Customer is not waiting")
	}
	return response.Success(c, "Customer called", entry)
}

// POST /api/v1/queue/counters/:id/complete/:entryId: finish service at a counter
func (h *QueueAdminHandler) Complete(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	counterID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	entryID, err := parseID(c, "entryId")
	if err != nil {
		return handleError(c, err)
	}

	entry, err := h.queueService.CompleteService(c.UserContext(), entryID, counterID, actor)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Service completed", entry)
}

// statusRequest is used for status changes
type statusRequest struct {
	Status string `json:"status"`
}

// ChangeStatus moves an entry along the transition table
// @Summary Change entry status
// @Tags Queue Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param body body statusRequest true "Target status"
// @Success 200 {object} response.Response{data=domain.QueueEntry}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /queue/entries/{id}/status [patch]
func (h *QueueAdminHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	entryID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entry, err := h.queueService.ChangeStatus(c.UserContext(), entryID, domain.QueueStatus(req.Status), actor)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Status updated", entry)
}

// ============================================================
// Ordering & Counters
// ============================================================

// positionRequest sets or clears (null) a manual queue position
type positionRequest struct {
	Position *int `json:"position"`
}

// PUT /api/v1/queue/entries/:id/position: manual reorder (administrators)
func (h *QueueAdminHandler) SetPosition(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	entryID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	var req positionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entry, err := h.queueService.SetManualPosition(c.UserContext(), entryID, req.Position, actor)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Position updated", entry)
}

// counterRequest opens or closes a counter
type counterRequest struct {
	IsActive *bool `json:"is_active"`
}

// PATCH /api/v1/queue/counters/:id: open/close a counter (administrators)
func (h *QueueAdminHandler) SetCounterActive(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	counterID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	var req counterRequest
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return response.BadRequest(c, "is_active is required")
	}

	counter, err := h.queueService.SetCounterActive(c.UserContext(), counterID, *req.IsActive, actor)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Counter updated", counter)
}

// ============================================================
// End of day
// ============================================================

// resetRequest carries an optional reason recorded on archived entries
type resetRequest struct {
	Reason string `json:"reason"`
}

// ResetQueue closes the day on demand
// @Summary Reset queue
// @Tags Queue Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body resetRequest false "Reason"
// @Success 200 {object} response.Response{data=services.ResetSummary}
// @Failure 403 {object} response.Response
// @Router /queue/reset [post]
func (h *QueueAdminHandler) ResetQueue(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req resetRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	summary, err := h.queueService.ResetQueue(c.UserContext(), actor, req.Reason)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Queue reset", summary)
}
