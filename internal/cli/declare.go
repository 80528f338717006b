package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swarmgate/swarmgate/internal/gate"
	"github.com/swarmgate/swarmgate/internal/ledger"
	"github.com/swarmgate/swarmgate/internal/model"
)

var declareSession string

func init() {
	declareCmd.Flags().StringVar(&declareSession, "session", "cli", "Session id to record against")
	rootCmd.AddCommand(declareCmd)
}

var declareCmd = &cobra.Command{
	Use:   "declare <key> <value>",
	Short: "Record an evidence declaration",
	Long: "Runs the declaration through the full decision cycle, exactly as if the\n" +
		"agent had called the orchestrator's memory_store tool. Reserved keys:\n" +
		"  " + ledger.PlanKey + "        registers the governing plan (resets prior evidence)\n" +
		"  " + ledger.PlanContentKey + "  records that the plan content was captured\n" +
		"  " + ledger.WorkUnitPrefix + "<id>        registers work unit <id>",
	Args: cobra.ExactArgs(2),
	RunE: runDeclare,
}

func runDeclare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	g := gate.New(cfg)
	defer g.Close()

	result := g.Process(declareSession, &model.Action{
		Tool:  cfg.Namespace + "memory_store",
		Input: map[string]any{"key": args[0], "value": args[1]},
	})

	rec, err := g.Snapshot()
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	out, _ := json.MarshalIndent(map[string]any{
		"decision":   string(result.Decision),
		"reason":     result.Reason,
		"state":      string(gate.StateOf(rec)),
		"work_units": ledger.WorkUnits(rec),
	}, "", "  ")
	fmt.Println(string(out))
	return nil
}
