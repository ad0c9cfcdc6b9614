// internal/cli/root.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/droidkit"
)

var (
	rootDir      string
	settingsPath string
	debug        bool
	keepGoing    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "droidkit [action]",
	Short: "Cross-compile a component for Android and run it on a device",
	Long: `droidkit - Android cross-build and deploy tool

Builds one component for armv7a, aarch64, x86 and x86_64 with the toolchain
configured in local.properties.yml, and deploys it to a device over adb.

Actions:
  build            build all four architectures
  clean            remove all four build directories
  verify           check adb and device connectivity
  deploy:<arch>    push the build of <arch> to the device and run it
  clean:<arch>     remove the deployed <arch> build from the device
                   (device-side only, the local build directory is kept)

Run without an action for a step-by-step guide.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAction,
}

// Execute executes the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.Flags().StringVar(&rootDir, "root", ".", "project root containing Sources/ and local.properties.yml")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "settings file (default is <root>/local.properties.yml)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue with remaining architectures after a failure")

	setVersion(rootCmd)
}

func runAction(cmd *cobra.Command, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	}
	if len(args) > 1 && debug {
		fmt.Fprintf(cmd.ErrOrStderr(), "ignoring extra arguments: %v\n", args[1:])
	}

	project := droidkit.NewProject(droidkit.Options{
		Root:         rootDir,
		SettingsPath: settingsPath,
		Program:      cmd.Root().Name(),
		Debug:        debug,
		KeepGoing:    keepGoing,
		Stdout:       cmd.OutOrStdout(),
		Stderr:       cmd.ErrOrStderr(),
	})

	return project.Perform(cmd.Context(), token)
}
