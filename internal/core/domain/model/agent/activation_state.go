package agent

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ActivationState represents the administrative lifecycle of an agent account.
// New agents start in Pending until the restaurant activates them; Suspended
// agents keep their history but cannot take deliveries.
//
// State semantics:
//
//	Pending   - registered, not yet cleared to work
//	Active    - cleared to work; only Active agents may be marked available
//	Suspended - administratively blocked from new deliveries
//
// ActivationState is a value object that validates its values and provides
// the wire/string representation used by the API and persistence.
type ActivationState int

const (
	// UnknownState represents an invalid or undefined activation state.
	// This value (0) helps catch uninitialized ActivationState values.
	UnknownState ActivationState = iota

	// Pending is the initial state when an agent is first registered.
	Pending

	// Active indicates the agent is cleared to take deliveries.
	Active

	// Suspended indicates the agent is administratively blocked.
	Suspended
)

// getActivationStateStrings returns a map of ActivationState values to their
// string representations. All states are included for string conversion.
func getActivationStateStrings() map[ActivationState]string {
	return map[ActivationState]string{
		UnknownState: "UNKNOWN",
		Pending:      "PENDING",
		Active:       "ACTIVE",
		Suspended:    "SUSPENDED",
	}
}

// getValidActivationStateStrings returns a map of only valid ActivationState values.
func getValidActivationStateStrings() map[ActivationState]string {
	//nolint:exhaustive // UnknownState is intentionally excluded as it's invalid
	return map[ActivationState]string{
		Pending:   "PENDING",
		Active:    "ACTIVE",
		Suspended: "SUSPENDED",
	}
}

// Validate checks if the ActivationState value is valid.
// Valid states are: Pending, Active, Suspended.
func (s ActivationState) Validate() error {
	if _, ok := getValidActivationStateStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"activation state is invalid",
			fmt.Errorf("%d is not a valid activation state", s),
		)
	}
	return nil
}

// String returns the wire representation of the state ("PENDING", "ACTIVE",
// "SUSPENDED"). Implements fmt.Stringer and is safe on any value, including
// invalid ones, for which it returns "UNKNOWN".
func (s ActivationState) String() string {
	if str, ok := getActivationStateStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// ActivationStateFromString parses the wire representation of an activation
// state. Returns an error for anything that is not one of the three valid
// states.
func ActivationStateFromString(value string) (ActivationState, error) {
	for state, str := range getValidActivationStateStrings() {
		if str == value {
			return state, nil
		}
	}
	return UnknownState, errs.NewValueIsInvalidErrorWithCause(
		"activation state is invalid",
		fmt.Errorf("%q is not a valid activation state", value),
	)
}
