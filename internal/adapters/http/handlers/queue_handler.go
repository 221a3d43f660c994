package handlers

import (
	"shopserve/internal/core/services"
	"shopserve/internal/pkg/pagination"
	"shopserve/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// QueueHandler handles front-desk queue endpoints
type QueueHandler struct {
	queueService *services.QueueService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queueService *services.QueueService) *QueueHandler {
	return &QueueHandler{
		queueService: queueService,
	}
}

// ============================================================
// POST /api/v1/queue/entries: register a walk-in customer
// ============================================================

// RegisterEntry adds a customer to the waiting queue
// @Summary Register walk-in customer
// @Tags Queue
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RegisterEntryInput true "Customer"
// @Success 201 {object} response.Response{data=domain.QueueEntry}
// @Failure 400 {object} response.Response
// @Router /queue/entries [post]
func (h *QueueHandler) RegisterEntry(c *fiber.Ctx) error {
	var input services.RegisterEntryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entry, err := h.queueService.RegisterEntry(c.UserContext(), input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Customer registered", entry)
}

// ============================================================
// GET /api/v1/queue: ranked waiting list, in-service entries and counters
// ============================================================

// Snapshot returns the live queue
// @Summary Queue snapshot
// @Tags Queue
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.QueueSnapshot}
// @Router /queue [get]
func (h *QueueHandler) Snapshot(c *fiber.Ctx) error {
	snapshot, err := h.queueService.Snapshot(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Queue retrieved", snapshot)
}

// ============================================================
// GET /api/v1/queue/entries/:id/position: position and estimated wait
// ============================================================
func (h *QueueHandler) GetPosition(c *fiber.Ctx) error {
	entryID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	ranked, err := h.queueService.EntryPosition(c.UserContext(), entryID)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Position retrieved", ranked)
}

// ============================================================
// GET /api/v1/queue/entries/:id/history?page=&limit=: status change events
// ============================================================
func (h *QueueHandler) GetHistory(c *fiber.Ctx) error {
	entryID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	events, err := h.queueService.History(c.UserContext(), entryID)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "History retrieved", pagination.Slice(events, pagination.GetParams(c)))
}
