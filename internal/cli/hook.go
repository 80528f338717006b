package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/swarmgate/swarmgate/internal/hook"
)

func init() {
	hookCmd.AddCommand(preToolUseCmd)
	hookCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(hookCmd)
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Host-runtime hook entry points (read request JSON from stdin)",
}

var preToolUseCmd = &cobra.Command{
	Use:   "pre-tool-use",
	Short: "Decide one action attempt; decision payload on stdout, always exit 0",
	Long: "Reads the host's per-action request from stdin, runs the full decision\n" +
		"cycle, and writes the structured decision payload to stdout. Always exits 0:\n" +
		"a request that cannot be parsed fails open with the fault in the reason.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			// Config trouble must not brick the agent; run on defaults.
			cfg = defaultsWithWarning(err)
		}
		os.Exit(hook.RunPreToolUse(cfg, os.Stdin, os.Stdout))
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Audit a termination attempt; exit 2 with stderr explanation to block",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			cfg = defaultsWithWarning(err)
		}
		os.Exit(hook.RunStop(cfg, os.Stdin, os.Stderr))
	},
}
