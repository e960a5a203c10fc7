// Package agent implements the Agent aggregate of the dispatch domain.
// An agent is a delivery courier attached to exactly one restaurant, with an
// administrative activation state, an availability flag and a bounded counter
// of concurrently assigned deliveries.
//
// The aggregate guards the capacity invariant 0 <= currentLoad <= maxLoad and
// the rule that only ACTIVE agents can be marked available. Capacity is
// acquired and released exclusively through AcquireSlot and ReleaseSlot so
// that the dispatch transaction is the only writer of the counter.
package agent
