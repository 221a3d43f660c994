package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleCashier, RoleSales}

func TestCheckTransition_InvalidPairsIgnoreRole(t *testing.T) {
	actors := []Actor{TrustedInternal(1)}
	for _, r := range allRoles {
		actors = append(actors, NewActor(1, r))
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			if CanTransition(from, to) {
				continue
			}
			for _, a := range actors {
				err := CheckTransition(a, from, to)
				var ite *InvalidTransitionError
				require.Truef(t, errors.As(err, &ite), "%s→%s as %v: got %v", from, to, a.Role, err)
				assert.Equal(t, from, ite.From)
				assert.Equal(t, to, ite.To)
			}
		}
	}
}

func TestCheckTransition_SalesAlwaysForbidden(t *testing.T) {
	sales := NewActor(7, RoleSales)
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			if !CanTransition(from, to) {
				continue
			}
			err := CheckTransition(sales, from, to)
			assert.Truef(t, errors.Is(err, ErrForbidden), "%s→%s: got %v", from, to, err)
		}
	}
}

func TestCheckTransition_AdminsAndTrustedMayDoEveryValidMove(t *testing.T) {
	actors := []Actor{NewActor(1, RoleSuperAdmin), NewActor(2, RoleAdmin), TrustedInternal(0)}
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			if !CanTransition(from, to) {
				continue
			}
			for _, a := range actors {
				assert.NoError(t, CheckTransition(a, from, to))
			}
		}
	}
}

func TestCheckTransition_CashierPolicy(t *testing.T) {
	cashier := NewActor(3, RoleCashier)
	allowed := [][2]QueueStatus{
		{StatusWaiting, StatusServing},
		{StatusServing, StatusProcessing},
		{StatusServing, StatusCompleted},
		{StatusProcessing, StatusCompleted},
		{StatusWaiting, StatusCancelled},
		{StatusServing, StatusCancelled},
		{StatusProcessing, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.NoError(t, CheckTransition(cashier, tc[0], tc[1]), "%s→%s", tc[0], tc[1])
	}

	// not in the table, so it must surface as invalid rather than forbidden
	err := CheckTransition(cashier, StatusWaiting, StatusProcessing)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckTransition_EmptyRoleIsNotTrusted(t *testing.T) {
	var anonymous Actor
	err := CheckTransition(anonymous, StatusWaiting, StatusServing)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTerminalStatesHaveNoOutgoingTransitions(t *testing.T) {
	for _, from := range []QueueStatus{StatusCompleted, StatusCancelled} {
		for _, to := range AllStatuses {
			assert.False(t, CanTransition(from, to))
		}
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" cashier ")
	require.NoError(t, err)
	assert.Equal(t, RoleCashier, r)

	_, err = ParseRole("MANAGER")
	assert.ErrorIs(t, err, ErrValidation)
}
