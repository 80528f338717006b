package hook

import "github.com/swarmgate/swarmgate/internal/model"

// PreToolUseOutput is the structured decision payload written to stdout.
// The host parses it whenever the process exits 0.
type PreToolUseOutput struct {
	HookSpecificOutput HookDecision `json:"hookSpecificOutput"`
}

// HookDecision carries the decision in the host's field naming.
type HookDecision struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// NewPreToolUseOutput wraps an evaluation result in the host's payload shape.
func NewPreToolUseOutput(result model.EvalResult) PreToolUseOutput {
	return PreToolUseOutput{
		HookSpecificOutput: HookDecision{
			HookEventName:            "PreToolUse",
			PermissionDecision:       string(result.Decision),
			PermissionDecisionReason: result.Reason,
		},
	}
}
