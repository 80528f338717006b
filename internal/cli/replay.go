package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swarmgate/swarmgate/internal/evidence"
)

var replaySession string

func init() {
	replayCmd.Flags().StringVar(&replaySession, "session", "", "Filter by session id (default: all)")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay the evidence log with a per-session summary",
	RunE:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result, err := evidence.Replay(cfg.EvidenceLogPath(), replaySession)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
