package task

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery task.
// It implements a state machine with defined transitions to ensure
// deliveries follow the correct business workflow.
//
// State transitions:
//
//	PENDING ──> ASSIGNED ──> PICKED_UP ──> ON_THE_WAY ──> DELIVERED
//	   ^            │
//	   └────────────┘
//	     (unassign)
//
// DELIVERED is terminal. Any transition not in the table is rejected with an
// InvalidTransitionError naming the current and requested status.
type Status int

const (
	// UnknownStatus represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	UnknownStatus Status = iota

	// Pending is the initial status: the task awaits an agent.
	Pending

	// Assigned indicates an agent holds a delivery slot for the task.
	Assigned

	// PickedUp indicates the agent collected the order from the restaurant.
	PickedUp

	// OnTheWay indicates the agent is moving toward the dropoff address.
	OnTheWay

	// Delivered indicates the order reached the customer.
	// This is a final state with no further transitions allowed.
	Delivered
)

// getStatusStrings returns a map of Status values to their wire representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "UNKNOWN",
		Pending:       "PENDING",
		Assigned:      "ASSIGNED",
		PickedUp:      "PICKED_UP",
		OnTheWay:      "ON_THE_WAY",
		Delivered:     "DELIVERED",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // UnknownStatus is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "PENDING",
		Assigned:  "ASSIGNED",
		PickedUp:  "PICKED_UP",
		OnTheWay:  "ON_THE_WAY",
		Delivered: "DELIVERED",
	}
}

// getTransitions returns the allowed next statuses per current status.
// The table is the single source of truth for the delivery lifecycle.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Assigned},
		Assigned:  {PickedUp, Pending},
		PickedUp:  {OnTheWay},
		OnTheWay:  {Delivered},
		Delivered: {},
	}
}

// Validate checks if the Status value is valid.
// Valid statuses are: Pending, Assigned, PickedUp, OnTheWay, Delivered.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the wire representation of the status ("PENDING",
// "ASSIGNED", "PICKED_UP", "ON_THE_WAY", "DELIVERED"). Implements
// fmt.Stringer and is safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StatusFromString parses the wire representation of a status.
func StatusFromString(value string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == value {
			return status, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status", value),
	)
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// IsTracking reports whether the status allows location ingestion.
// Only PickedUp and OnTheWay tasks accept device position reports.
func (s Status) IsTracking() bool {
	return s == PickedUp || s == OnTheWay
}

// CanTransitionTo reports whether next is an allowed transition from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates and performs a transition.
//
// Returns:
//   - (next, nil) when the transition is in the table
//   - (0, *InvalidTransitionError) otherwise, naming current and requested status
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return UnknownStatus, err
	}
	if !s.CanTransitionTo(next) {
		return UnknownStatus, NewInvalidTransitionError(s, next)
	}
	return next, nil
}

// ValidateCanHaveAgent validates the consistency between task status and agent
// assignment: every non-PENDING task must reference an agent, and a PENDING
// task must not.
func (s Status) ValidateCanHaveAgent(hasAgent bool) error {
	if hasAgent && s == Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s task cannot have an agent", s),
		)
	}

	if !hasAgent && s != Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s task must have an agent", s),
		)
	}

	return nil
}
