package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swarmgate/swarmgate/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "swarmgate",
	Short: "Evidence-gated authorization for autonomous coding agents",
	Long: "Intercepts every action an autonomous coding agent attempts and decides\n" +
		"allow/deny/ask from session evidence: governing plan registered, work units\n" +
		"declared, verification produced. A separate completion audit vetoes session\n" +
		"termination when the transcript lacks evidence the work was finished.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config YAML (default "+config.DefaultPath+")")
}

// loadConfig resolves configuration for the current invocation.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// defaultsWithWarning reports a config failure on stderr and returns the
// built-in defaults. Hook entry points use it so a broken config file
// never denies service.
func defaultsWithWarning(err error) *config.Config {
	fmt.Fprintf(os.Stderr, "swarmgate: %v (using defaults)\n", err)
	return config.Default()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
