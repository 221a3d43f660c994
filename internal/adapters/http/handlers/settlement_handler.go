package handlers

import (
	"shopserve/internal/adapters/http/middleware"
	"shopserve/internal/core/services"
	"shopserve/internal/pkg/pagination"
	"shopserve/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// SettlementHandler handles sale and payment endpoints
type SettlementHandler struct {
	ledger *services.SettlementLedger
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(ledger *services.SettlementLedger) *SettlementHandler {
	return &SettlementHandler{
		ledger: ledger,
	}
}

// ============================================================
// POST /api/v1/transactions: open a sale
// ============================================================

// CreateTransaction opens a sale with nothing paid yet
// @Summary Create transaction
// @Tags Ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateTransactionInput true "Sale"
// @Success 201 {object} response.Response{data=domain.Transaction}
// @Failure 400 {object} response.Response
// @Router /transactions [post]
func (h *SettlementHandler) CreateTransaction(c *fiber.Ctx) error {
	var input services.CreateTransactionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	txn, err := h.ledger.CreateTransaction(c.UserContext(), input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Transaction created", txn)
}

// ============================================================
// GET /api/v1/transactions/:id: transaction with its settlements
// ============================================================
func (h *SettlementHandler) GetLedger(c *fiber.Ctx) error {
	txnID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	view, err := h.ledger.GetLedger(c.UserContext(), txnID)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Ledger retrieved", view)
}

// ============================================================
// GET /api/v1/transactions/:id/audit?page=&limit=: every settlement attempt
// ============================================================
func (h *SettlementHandler) GetAuditTrail(c *fiber.Ctx) error {
	txnID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	records, err := h.ledger.GetAuditTrail(c.UserContext(), txnID)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Audit trail retrieved", pagination.Slice(records, pagination.GetParams(c)))
}

// settlementRequest is one payment against the transaction in the path
type settlementRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"250.00"`
	Mode   string          `json:"mode" example:"cash"`
}

// CreateSettlement records a payment by the authenticated cashier
// @Summary Record settlement
// @Tags Ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param body body settlementRequest true "Payment"
// @Success 201 {object} response.Response{data=services.LedgerView}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /transactions/{id}/settlements [post]
func (h *SettlementHandler) CreateSettlement(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	txnID, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	var req settlementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	view, err := h.ledger.CreateSettlement(c.UserContext(), services.CreateSettlementInput{
		TransactionID: txnID,
		Amount:        req.Amount,
		Mode:          req.Mode,
		CashierID:     actor.ID,
	})
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Settlement recorded", view)
}
