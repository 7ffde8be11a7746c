package gearbox

import (
	"context"

	"github.com/pkg/errors"
)

// Engine is the migration engine a command is forwarded to.
// The config file and script location are bound to the engine when it is
// built, see Invocation.Config.
type Engine interface {
	// Revision creates a new, empty migration called name.
	Revision(ctx context.Context, name string) error
	// Current reports the revision the database is at.
	Current(ctx context.Context) error
	// Upgrade applies migrations up to version.
	Upgrade(ctx context.Context, version string) error
	// Downgrade reverts migrations down to version.
	Downgrade(ctx context.Context, version string) error
}

// Run executes the single engine operation selected by inv.
//
// Errors returned by the engine are passed through as they are.
func Run(ctx context.Context, engine Engine, inv Invocation) error {
	switch inv.Subcommand {
	case Create:
		return engine.Revision(ctx, inv.Argument)
	case DBVersion:
		return engine.Current(ctx)
	case Upgrade:
		return engine.Upgrade(ctx, inv.Argument)
	case Downgrade:
		return engine.Downgrade(ctx, inv.Argument)
	case Test:
		// apply the next revision and roll it straight back
		if err := engine.Upgrade(ctx, "+1"); err != nil {
			return err
		}
		return engine.Downgrade(ctx, "-1")
	}
	return errors.Errorf("invalid command %v", inv.Subcommand)
}
