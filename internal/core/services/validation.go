package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"shopserve/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs struct tags and reports the first failure as a ValidationError
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := "failed " + fe.Tag()
		if fe.Param() != "" {
			reason = fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return domain.NewValidationError(fe.Field(), reason)
	}
	return domain.NewValidationError("input", err.Error())
}

// maxAmount is the largest value a decimal(12,2) column holds
var maxAmount = decimal.RequireFromString("9999999999.99")

// validateAmount accepts positive money with at most two decimal places that
// fits the ledger columns
func validateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return domain.NewValidationError("amount", "must be greater than zero")
	case !amount.Equal(amount.Truncate(2)):
		return domain.NewValidationError("amount", "must have at most 2 decimal places")
	case amount.GreaterThan(maxAmount):
		return domain.NewValidationError("amount", "must not exceed "+maxAmount.StringFixed(2))
	}
	return nil
}
