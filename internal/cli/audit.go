package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swarmgate/swarmgate/internal/auditor"
	"github.com/swarmgate/swarmgate/internal/transcript"
)

var (
	auditTranscript string
	auditFormat     string
)

func init() {
	auditCmd.Flags().StringVarP(&auditTranscript, "transcript", "t", "", "Path to the session transcript JSONL (required)")
	auditCmd.Flags().StringVarP(&auditFormat, "format", "f", "text", "Output format (text|json)")
	auditCmd.MarkFlagRequired("transcript")
	rootCmd.AddCommand(auditCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the completion audit against a transcript",
	Long: "Re-scans the full transcript and runs the three completion checks:\n" +
		"outstanding work items, verification evidence for implementation changes,\n" +
		"and unresolved failures in captured output.\n\n" +
		"Exit code 0 if all checks pass, 1 if any check blocks.",
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tr, err := transcript.ParseFile(auditTranscript)
	if err != nil {
		return err
	}
	a, err := auditor.New(cfg.Verification)
	if err != nil {
		return err
	}

	result := a.Audit(tr, false)

	switch auditFormat {
	case "json":
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		for _, c := range result.Checks {
			mark := "ok"
			if !c.Passed {
				mark = "BLOCK"
			}
			fmt.Printf("%-24s %s\n", c.Name, mark)
		}
		fmt.Println()
		fmt.Println(result.Reason)
	}

	if !result.Allowed {
		os.Exit(1)
	}
	return nil
}
