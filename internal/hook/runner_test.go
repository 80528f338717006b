package hook

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/swarmgate/swarmgate/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.StateDir = t.TempDir()
	return cfg
}

func decodeDecision(t *testing.T, out *bytes.Buffer) HookDecision {
	t.Helper()
	var payload PreToolUseOutput
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	return payload.HookSpecificOutput
}

func TestRunPreToolUseAllowsInactiveSession(t *testing.T) {
	cfg := testConfig(t)
	in := strings.NewReader(`{"session_id":"s1","tool_name":"Bash","tool_input":{"command":"ls"}}`)
	var out bytes.Buffer

	if code := RunPreToolUse(cfg, in, &out); code != ExitDecision {
		t.Fatalf("expected exit %d, got %d", ExitDecision, code)
	}
	d := decodeDecision(t, &out)
	if d.HookEventName != "PreToolUse" {
		t.Errorf("expected PreToolUse event name, got %q", d.HookEventName)
	}
	if d.PermissionDecision != "allow" {
		t.Errorf("expected allow, got %q: %s", d.PermissionDecision, d.PermissionDecisionReason)
	}
}

func TestRunPreToolUseDeniesAfterActivation(t *testing.T) {
	cfg := testConfig(t)

	var out bytes.Buffer
	RunPreToolUse(cfg, strings.NewReader(
		`{"session_id":"s1","tool_name":"mcp__orchestrator__orchestrate_task","tool_input":{}}`), &out)

	out.Reset()
	code := RunPreToolUse(cfg, strings.NewReader(
		`{"session_id":"s1","tool_name":"Bash","tool_input":{"command":"rm -rf build"}}`), &out)
	if code != ExitDecision {
		t.Fatalf("denials still exit %d, got %d", ExitDecision, code)
	}
	d := decodeDecision(t, &out)
	if d.PermissionDecision != "deny" {
		t.Errorf("expected deny, got %q: %s", d.PermissionDecision, d.PermissionDecisionReason)
	}
	if !strings.Contains(d.PermissionDecisionReason, "main_task_id") {
		t.Errorf("deny reason must be actionable, got %q", d.PermissionDecisionReason)
	}
}

func TestRunPreToolUseMalformedInputFailsOpen(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	if code := RunPreToolUse(cfg, strings.NewReader("{{{not json"), &out); code != ExitDecision {
		t.Fatalf("expected exit %d on malformed input, got %d", ExitDecision, code)
	}
	d := decodeDecision(t, &out)
	if d.PermissionDecision != "allow" {
		t.Errorf("malformed input must fail open, got %q", d.PermissionDecision)
	}
	if !strings.Contains(d.PermissionDecisionReason, "fault") {
		t.Errorf("reason must name the failure, got %q", d.PermissionDecisionReason)
	}
}

func writeStopTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunStopBlocksOnPendingTodo(t *testing.T) {
	cfg := testConfig(t)
	path := writeStopTranscript(t,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"TodoWrite","input":{"todos":[{"content":"wire up metrics","status":"pending"}]}}]}}`,
	)

	var errOut bytes.Buffer
	req, _ := json.Marshal(StopRequest{SessionID: "s1", TranscriptPath: path})
	code := RunStop(cfg, bytes.NewReader(req), &errOut)
	if code != ExitBlock {
		t.Fatalf("expected exit %d, got %d", ExitBlock, code)
	}
	if !strings.Contains(errOut.String(), "wire up metrics") {
		t.Errorf("stderr must enumerate the outstanding item, got %q", errOut.String())
	}
}

func TestRunStopAllowsCleanTranscript(t *testing.T) {
	cfg := testConfig(t)
	path := writeStopTranscript(t,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"go test ./..."}}]}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":"ok  example.com/pkg  0.2s"}]}}`,
	)

	var errOut bytes.Buffer
	req, _ := json.Marshal(StopRequest{SessionID: "s1", TranscriptPath: path})
	if code := RunStop(cfg, bytes.NewReader(req), &errOut); code != ExitDecision {
		t.Fatalf("expected exit %d, got %d: %s", ExitDecision, code, errOut.String())
	}
}

func TestRunStopGuardActiveAllows(t *testing.T) {
	cfg := testConfig(t)

	var errOut bytes.Buffer
	req, _ := json.Marshal(StopRequest{SessionID: "s1", TranscriptPath: "/nonexistent", StopHookActive: true})
	if code := RunStop(cfg, bytes.NewReader(req), &errOut); code != ExitDecision {
		t.Fatalf("guard-active stop must exit %d, got %d", ExitDecision, code)
	}
}

func TestRunStopMissingTranscriptFailsOpen(t *testing.T) {
	cfg := testConfig(t)

	var errOut bytes.Buffer
	req, _ := json.Marshal(StopRequest{SessionID: "s1", TranscriptPath: filepath.Join(t.TempDir(), "gone.jsonl")})
	if code := RunStop(cfg, bytes.NewReader(req), &errOut); code != ExitDecision {
		t.Fatalf("missing transcript must fail open, got exit %d", code)
	}
	// The warning goes to the caller's writer, not the process stderr.
	if !strings.Contains(errOut.String(), "swarmgate:") {
		t.Errorf("expected a warning on the error writer, got %q", errOut.String())
	}
}

func TestRunStopBadVerificationConfigFailsOpen(t *testing.T) {
	cfg := testConfig(t)
	cfg.Verification.Markers = []string{"("}
	path := writeStopTranscript(t,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"ls"}}]}}`,
	)

	var errOut bytes.Buffer
	req, _ := json.Marshal(StopRequest{SessionID: "s1", TranscriptPath: path})
	if code := RunStop(cfg, bytes.NewReader(req), &errOut); code != ExitDecision {
		t.Fatalf("bad verification config must fail open, got exit %d", code)
	}
	if !strings.Contains(errOut.String(), "swarmgate:") {
		t.Errorf("expected a warning on the error writer, got %q", errOut.String())
	}
}

func TestRunStopMalformedInputFailsOpen(t *testing.T) {
	cfg := testConfig(t)

	var errOut bytes.Buffer
	if code := RunStop(cfg, strings.NewReader("garbage"), &errOut); code != ExitDecision {
		t.Fatalf("malformed stop request must fail open, got exit %d", code)
	}
}
