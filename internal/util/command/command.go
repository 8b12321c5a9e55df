// Package command carries small helpers shared by the cobra subcommands.
package command

import (
	"github.com/spf13/cobra"
)

// NewSubcommandGroup returns a parent command that only exists to group
// subcommands; invoking it directly prints the help text.
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: use,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}
