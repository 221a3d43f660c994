package domain

type transition struct {
	from QueueStatus
	to   QueueStatus
}

var validTransitions = map[transition]bool{
	{StatusWaiting, StatusServing}:      true,
	{StatusWaiting, StatusCancelled}:    true,
	{StatusServing, StatusProcessing}:   true,
	{StatusServing, StatusCompleted}:    true,
	{StatusServing, StatusCancelled}:    true,
	{StatusProcessing, StatusCompleted}: true,
	{StatusProcessing, StatusCancelled}: true,
}

// capabilities is the static (role, from, to) table. Roles absent from the
// map, or transitions absent from a role's set, are denied.
var capabilities = map[Role]map[transition]bool{
	RoleSuperAdmin: validTransitions,
	RoleAdmin:      validTransitions,
	RoleCashier: {
		{StatusWaiting, StatusServing}:      true,
		{StatusServing, StatusProcessing}:   true,
		{StatusServing, StatusCompleted}:    true,
		{StatusProcessing, StatusCompleted}: true,
		{StatusWaiting, StatusCancelled}:    true,
		{StatusServing, StatusCancelled}:    true,
		{StatusProcessing, StatusCancelled}: true,
	},
	RoleSales: {},
}

// CanTransition reports whether from→to is in the transition table
func CanTransition(from, to QueueStatus) bool {
	return validTransitions[transition{from, to}]
}

// RolePermits reports whether the role may perform from→to
func RolePermits(role Role, from, to QueueStatus) bool {
	return capabilities[role][transition{from, to}]
}

// CheckTransition validates from→to for the actor. Table validity is checked
// before the role policy so an invalid move never reports as forbidden.
func CheckTransition(actor Actor, from, to QueueStatus) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	if actor.IsTrusted() {
		return nil
	}
	if !RolePermits(actor.Role, from, to) {
		return NewForbiddenTransition(actor.roleLabel(), from, to)
	}
	return nil
}
