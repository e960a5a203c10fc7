package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrRedriveBroadcastsCommandIsNotConstructed = errors.New(
	"RedriveBroadcastsCommand must be created via NewRedriveBroadcastsCommand constructor",
)

// RedriveBroadcastsCommand triggers re-publication of the latest known state
// for every task whose last fan-out could not be confirmed. This is a
// parameterless sweep command run on a schedule.
//
// Example:
//
//	cmd := NewRedriveBroadcastsCommand()
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Redrive sweep failed: %v", err)
//	}
type RedriveBroadcastsCommand struct {
	guard guard.ConstructorGuard
}

// NewRedriveBroadcastsCommand creates a new command to trigger the redrive sweep.
func NewRedriveBroadcastsCommand() RedriveBroadcastsCommand {
	return RedriveBroadcastsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrRedriveBroadcastsCommandIsNotConstructed if validation fails.
func (c *RedriveBroadcastsCommand) Validate() error {
	return c.guard.Validate(
		ErrRedriveBroadcastsCommandIsNotConstructed,
	)
}
