package display

import (
	"github.com/spf13/cobra"
)

// ShouldOutputJSON reports whether cmd asked for JSON through its own --json
// flag or a persistent one on the root
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		on, _ := cmd.Flags().GetBool("json")
		return on
	}
	if f := cmd.Root().PersistentFlags().Lookup("json"); f != nil {
		on, _ := cmd.Root().PersistentFlags().GetBool("json")
		return on
	}
	return false
}
