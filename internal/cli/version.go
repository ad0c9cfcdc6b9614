// internal/cli/version.go
package cli

import "github.com/spf13/cobra"

// Version is the released version of droidkit
const Version = "0.1.0"

// setVersion exposes --version rather than a subcommand so that every
// positional token stays an action
func setVersion(cmd *cobra.Command) {
	cmd.Version = Version
	cmd.SetVersionTemplate(`droidkit version {{.Version}}
Android cross-build and deploy tool
https://github.com/arc-language/droidkit
`)
}
