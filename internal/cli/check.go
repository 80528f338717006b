package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swarmgate/swarmgate/internal/gate"
	"github.com/swarmgate/swarmgate/internal/model"
)

var checkInput string

func init() {
	checkCmd.Flags().StringVarP(&checkInput, "input", "i", "", "Action parameters as JSON (optional)")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <tool-name>",
	Short: "Dry-run a decision without recording anything",
	Long: "Classifies the action name, evaluates it against the current session\n" +
		"state, and prints the decision as JSON. State is not mutated: use this to\n" +
		"inspect what the gate would do.",
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var input map[string]any
	if checkInput != "" {
		if err := json.Unmarshal([]byte(checkInput), &input); err != nil {
			return fmt.Errorf("invalid --input JSON: %w", err)
		}
	}

	g := gate.New(cfg)
	defer g.Close()

	cat, result := g.Check(&model.Action{Tool: args[0], Input: input})
	out, _ := json.MarshalIndent(map[string]string{
		"tool":     args[0],
		"category": string(cat),
		"decision": string(result.Decision),
		"reason":   result.Reason,
		"rule_id":  result.RuleID,
	}, "", "  ")
	fmt.Println(string(out))
	return nil
}
