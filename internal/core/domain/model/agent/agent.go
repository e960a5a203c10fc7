package agent

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// defaultMaxLoad is the delivery slot limit applied when the caller does not
// supply one at registration time.
const defaultMaxLoad = 3

// Domain errors for agent operations.
var (
	// ErrNameIsRequired is returned when attempting to create an agent without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrAgentIsNotConstructed is returned when using an improperly initialized Agent.
	ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent constructor")
	// ErrCapacityExceeded is returned by AcquireSlot when the agent already
	// carries maxLoad concurrent deliveries. Callers should pick a different
	// agent rather than retry the same one.
	ErrCapacityExceeded = errors.New("agent capacity exceeded")
	// ErrAgentInactive is returned by AcquireSlot when the agent is not ACTIVE
	// or not marked available.
	ErrAgentInactive = errors.New("agent is not active and available")
	// ErrLoadUnderflow is returned by ReleaseSlot when the load counter is
	// already zero. The counter stays floored at zero; the error signals a
	// double release upstream.
	ErrLoadUnderflow = errors.New("agent load is already zero")
)

// Agent represents a delivery courier attached to a single restaurant.
// It is an aggregate root that owns the agent's activation state, availability
// flag and the delivery-slot counter used for capacity accounting.
//
// Key responsibilities:
//   - Managing agent identity and the owning-restaurant reference
//   - Guarding the 0 <= currentLoad <= maxLoad invariant
//   - Enforcing that only ACTIVE agents can be marked available
//   - Acquiring and releasing delivery slots during dispatch
//
// Business rules:
//   - Agent must have a valid UUID, a valid restaurant UUID and a non-empty name
//   - A slot can be acquired only while ACTIVE, available and below maxLoad
//   - Releasing a slot never takes the counter below zero
//   - Suspending or demoting an agent clears the availability flag
//
// Capacity mutation must always run against a transactionally locked row (see
// ports.AgentRepository.GetForUpdate) so that two concurrent dispatchers
// cannot both pass the maxLoad check.
type Agent struct {
	// id uniquely identifies the agent
	id kernel.UUID
	// restaurantID references the restaurant the agent works for
	restaurantID kernel.UUID
	// name is the human-readable name of the agent
	name string
	// activationState is the administrative lifecycle state
	activationState ActivationState
	// available reports whether the agent is currently taking deliveries
	available bool
	// currentLoad counts concurrently assigned, non-terminal tasks
	currentLoad int
	// maxLoad bounds currentLoad
	maxLoad int
	// guard ensures the agent was properly constructed
	guard guard.ConstructorGuard
}

// NewAgent creates a new Agent for the given restaurant.
// The agent starts in Pending state, unavailable, with a zero load counter.
//
// Parameters:
//   - id: Unique identifier for the agent (must be valid UUID)
//   - restaurantID: Owning restaurant (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//   - maxLoad: Delivery slot limit; zero selects the default of 3, negative values are rejected
//
// Returns:
//   - *Agent: A fully initialized agent ready for activation
//   - error: Validation error if any parameter is invalid (aggregated for multiple issues)
func NewAgent(id kernel.UUID, restaurantID kernel.UUID, name string, maxLoad int) (*Agent, error) {
	agent := &Agent{
		activationState: Pending,
		guard:           guard.NewConstructorGuard(),
	}

	if maxLoad == 0 {
		maxLoad = defaultMaxLoad
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setRestaurantID(restaurantID),
		agent.setName(name),
		agent.setMaxLoad(maxLoad),
	); err != nil {
		return nil, err
	}

	return agent, nil
}

// RestoreAgent reconstructs an Agent aggregate from persistent storage.
// Unlike NewAgent, which registers a fresh agent, this constructor restores an
// agent to its previously persisted state including load counters and flags.
//
// Business rules:
//   - All identifiers and the activation state must be valid
//   - currentLoad must lie within [0..maxLoad]
//   - available may only be true for Active agents
func RestoreAgent(
	id kernel.UUID,
	restaurantID kernel.UUID,
	name string,
	activationState ActivationState,
	available bool,
	currentLoad int,
	maxLoad int,
) (*Agent, error) {
	agent := &Agent{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setRestaurantID(restaurantID),
		agent.setName(name),
		agent.setActivationState(activationState),
		agent.setMaxLoad(maxLoad),
	); err != nil {
		return nil, err
	}

	if currentLoad < 0 || currentLoad > agent.maxLoad {
		return nil, errs.NewValueIsOutOfRangeError("currentLoad", currentLoad, 0, agent.maxLoad)
	}
	agent.currentLoad = currentLoad

	if available && agent.activationState != Active {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"available",
			fmt.Errorf("%s agent cannot be available", agent.activationState),
		)
	}
	agent.available = available

	return agent, nil
}

// IsEqual compares two agents by their unique identifiers.
func (a *Agent) IsEqual(other *Agent) bool {
	if other == nil {
		return false
	}
	return a.id.IsEqual(other.id)
}

// Validate checks if the Agent was properly constructed via NewAgent or
// RestoreAgent. The zero value of Agent fails this validation.
func (a *Agent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// ID returns the unique identifier of the agent.
func (a *Agent) ID() kernel.UUID {
	return a.id
}

// RestaurantID returns the owning restaurant's identifier.
func (a *Agent) RestaurantID() kernel.UUID {
	return a.restaurantID
}

// Name returns the human-readable name of the agent.
func (a *Agent) Name() string {
	return a.name
}

// ActivationState returns the administrative lifecycle state.
func (a *Agent) ActivationState() ActivationState {
	return a.activationState
}

// IsAvailable reports whether the agent is currently taking deliveries.
func (a *Agent) IsAvailable() bool {
	return a.available
}

// CurrentLoad returns the number of concurrently assigned, non-terminal tasks.
func (a *Agent) CurrentLoad() int {
	return a.currentLoad
}

// MaxLoad returns the delivery slot limit.
func (a *Agent) MaxLoad() int {
	return a.maxLoad
}

// WorksFor reports whether the agent belongs to the given restaurant.
// Dispatch rejects cross-restaurant assignments based on this check.
func (a *Agent) WorksFor(restaurantID kernel.UUID) bool {
	return a.restaurantID.IsEqual(restaurantID)
}

// HasCapacity reports whether a further slot could be acquired right now.
func (a *Agent) HasCapacity() bool {
	return a.activationState == Active && a.available && a.currentLoad < a.maxLoad
}

// AcquireSlot reserves one delivery slot on the agent.
//
// The acquire succeeds only while the agent is Active, available and below
// maxLoad; on success the load counter is incremented. This is the single
// serialization point for concurrent assignment attempts - the caller must
// hold the agent row lock for the duration of the enclosing transaction.
//
// Returns:
//   - ErrAgentInactive if the agent is not Active or not available
//   - ErrCapacityExceeded if currentLoad already equals maxLoad
func (a *Agent) AcquireSlot() error {
	if a.activationState != Active || !a.available {
		return ErrAgentInactive
	}

	if a.currentLoad >= a.maxLoad {
		return ErrCapacityExceeded
	}

	a.currentLoad++
	return nil
}

// ReleaseSlot frees one delivery slot on the agent.
//
// The counter is floored at zero: releasing at zero load leaves the agent
// unchanged and returns ErrLoadUnderflow so the caller can log the double
// release without corrupting the invariant.
func (a *Agent) ReleaseSlot() error {
	if a.currentLoad == 0 {
		return ErrLoadUnderflow
	}

	a.currentLoad--
	return nil
}

// SetAvailability toggles whether the agent is taking deliveries.
// Marking an agent available is rejected unless the agent is Active.
func (a *Agent) SetAvailability(available bool) error {
	if available && a.activationState != Active {
		return ErrAgentInactive
	}

	a.available = available
	return nil
}

// SetActivationState moves the agent to a new administrative state.
// Leaving the Active state clears the availability flag so a suspended or
// demoted agent never appears dispatchable. In-flight deliveries are not
// touched; the agent keeps its load counter until those tasks complete.
func (a *Agent) SetActivationState(state ActivationState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	a.activationState = state
	if state != Active {
		a.available = false
	}
	return nil
}

// setID sets the agent's unique identifier with validation.
func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	a.id = id
	return nil
}

// setRestaurantID sets the owning restaurant reference with validation.
func (a *Agent) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	a.restaurantID = restaurantID
	return nil
}

// setName sets the agent's name with validation.
func (a *Agent) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	a.name = name
	return nil
}

// setMaxLoad sets the delivery slot limit with validation.
func (a *Agent) setMaxLoad(maxLoad int) error {
	if maxLoad <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"maxLoad is invalid",
			fmt.Errorf("%d is not greater than 0", maxLoad),
		)
	}

	a.maxLoad = maxLoad
	return nil
}

// setActivationState sets the lifecycle state with validation (restore path).
func (a *Agent) setActivationState(state ActivationState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	a.activationState = state
	return nil
}
