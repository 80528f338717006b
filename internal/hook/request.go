// Package hook is the process boundary with the host runtime. It parses
// the per-action and stop requests the host writes to stdin, runs the
// gate or the completion audit, and renders the decision in the exit
// convention the host expects: exit 0 with a structured payload on
// stdout, or exit 2 with the explanation on stderr for an audit block.
package hook

// PreToolUseRequest is the host's per-action request. ToolInput is
// free-form; the gate only reads the fields it knows.
type PreToolUseRequest struct {
	SessionID      string         `json:"session_id"`
	TranscriptPath string         `json:"transcript_path"`
	Cwd            string         `json:"cwd"`
	HookEventName  string         `json:"hook_event_name"`
	ToolName       string         `json:"tool_name"`
	ToolInput      map[string]any `json:"tool_input"`
}

// StopRequest is the host's termination-attempt request. StopHookActive
// set means a prior audit for this same attempt is still in flight.
type StopRequest struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	StopHookActive bool   `json:"stop_hook_active"`
}
