package handlers

import (
	"errors"
	"log"
	"strconv"

	"shopserve/internal/core/domain"
	"shopserve/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned alongside the message
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeInvalidTransition = "invalid_transition"
	CodeForbidden         = "forbidden"
	CodeOverpayment       = "overpayment"
	CodeConflict          = "conflict"
	CodeInternal          = "internal_error"
)

// handleError maps a core error kind onto an HTTP status
func handleError(c *fiber.Ctx, err error) error {
	var overpay *domain.OverpaymentError
	switch {
	case errors.As(err, &overpay):
		return response.ErrorWithCode(c, fiber.StatusUnprocessableEntity, CodeOverpayment, err.Error(), fiber.Map{
			"requested": overpay.Requested.StringFixed(2),
			"remaining": overpay.Remaining.StringFixed(2),
		})
	case errors.Is(err, domain.ErrValidation):
		return response.ErrorWithCode(c, fiber.StatusBadRequest, CodeValidation, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return response.ErrorWithCode(c, fiber.StatusNotFound, CodeNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.ErrorWithCode(c, fiber.StatusConflict, CodeInvalidTransition, err.Error(), nil)
	case errors.Is(err, domain.ErrForbidden):
		return response.ErrorWithCode(c, fiber.StatusForbidden, CodeForbidden, err.Error(), nil)
	case errors.Is(err, domain.ErrConflict):
		return response.ErrorWithCode(c, fiber.StatusConflict, CodeConflict, err.Error(), nil)
	default:
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
		return response.ErrorWithCode(c, fiber.StatusInternalServerError, CodeInternal, "Internal server error", nil)
	}
}

// parseID reads a positive numeric path parameter
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return uint(id), nil
}
