// Package task implements the DeliveryTask aggregate of the dispatch domain.
// A delivery task is the per-order record tracked through the lifecycle
// PENDING → ASSIGNED → PICKED_UP → ON_THE_WAY → DELIVERED, with a manual
// unassign path from ASSIGNED back to PENDING.
//
// The aggregate owns the status state machine, the agent assignment
// invariant (an agent is referenced exactly when the task is not PENDING),
// the immutable pickup/dropoff address snapshots and the set-exactly-once
// lifecycle timestamps. An optimistic version field lets the persistence
// layer detect dispatchers racing on the same task row.
package task
