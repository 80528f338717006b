package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/swarmgate/swarmgate/internal/auditor"
	"github.com/swarmgate/swarmgate/internal/config"
	"github.com/swarmgate/swarmgate/internal/gate"
	"github.com/swarmgate/swarmgate/internal/model"
	"github.com/swarmgate/swarmgate/internal/transcript"
)

// Exit codes of the host's process-boundary convention.
const (
	ExitDecision = 0 // structured payload on stdout, host must parse it
	ExitBlock    = 2 // no payload, stderr is the explanation
)

// RunPreToolUse handles one per-action request from stdin to stdout and
// returns the process exit code. It always emits a decision payload and
// exits 0: a request the gate cannot even parse fails open.
func RunPreToolUse(cfg *config.Config, in io.Reader, out io.Writer) int {
	var req PreToolUseRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		writeDecision(out, model.EvalResult{
			Decision: model.Allow,
			Reason:   fmt.Sprintf("allow, fault: malformed hook request: %v", err),
		})
		return ExitDecision
	}

	g := gate.New(cfg)
	defer g.Close()

	result := g.Process(req.SessionID, &model.Action{
		Tool:  req.ToolName,
		Input: req.ToolInput,
	})
	writeDecision(out, result)
	return ExitDecision
}

// RunStop handles one termination-attempt request and returns the
// process exit code: 0 lets the session end, ExitBlock vetoes it with
// the itemized explanation on errW.
func RunStop(cfg *config.Config, in io.Reader, errW io.Writer) int {
	var req StopRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return ExitDecision // malformed request fails open
	}
	if req.StopHookActive {
		return ExitDecision
	}
	if req.TranscriptPath == "" {
		return ExitDecision
	}

	tr, err := transcript.ParseFile(req.TranscriptPath)
	if err != nil {
		// No transcript means no evidence to audit; never brick the agent.
		fmt.Fprintf(errW, "swarmgate: %v\n", err)
		return ExitDecision
	}

	a, err := auditor.New(cfg.Verification)
	if err != nil {
		fmt.Fprintf(errW, "swarmgate: %v\n", err)
		return ExitDecision
	}

	result := a.Audit(tr, false)
	if result.Allowed {
		return ExitDecision
	}
	fmt.Fprintln(errW, result.Reason)
	return ExitBlock
}

func writeDecision(out io.Writer, result model.EvalResult) {
	payload := NewPreToolUseOutput(result)
	if err := json.NewEncoder(out).Encode(payload); err != nil {
		fmt.Fprintf(os.Stderr, "swarmgate: write decision: %v\n", err)
	}
}
