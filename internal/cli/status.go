package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swarmgate/swarmgate/internal/gate"
	"github.com/swarmgate/swarmgate/internal/ledger"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session state",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	g := gate.New(cfg)
	defer g.Close()

	rec, err := g.Snapshot()
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	out, _ := json.MarshalIndent(map[string]any{
		"state":              string(gate.StateOf(rec)),
		"enforcement_active": rec.EnforcementActive,
		"main_task_id":       rec.MainTaskID,
		"plan_pending":       rec.PlanPending,
		"plan_captured":      rec.PlanCaptured,
		"work_units":         ledger.WorkUnits(rec),
		"declarations":       len(rec.Declarations),
		"privileged_actions": len(rec.Actions),
		"session_started":    rec.SessionStarted,
		"last_activity":      rec.LastActivity,
	}, "", "  ")
	fmt.Println(string(out))
	return nil
}
