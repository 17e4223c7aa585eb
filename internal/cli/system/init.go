package system

import (
	"fmt"

	"github.com/trailhead-labs/habitkeep/internal/cli"
)

type InitCmd struct{}

// Run creates the database and applies all schema migrations. Schema
// failures abort instead of leaving the application in an unknown state.
func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	fmt.Printf("Initialized habitkeep storage at %s\n", ctx.Store.Path())
	return nil
}
