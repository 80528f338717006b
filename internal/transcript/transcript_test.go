package transcript

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	var data []byte
	for _, l := range lines {
		data = append(data, []byte(l+"\n")...)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFilePairsCallsWithResults(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"go test ./..."}}]}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":"ok  example.com/pkg  0.12s"}]}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t2","name":"Read","input":{"file_path":"main.go"}}]}}`,
	)

	tr, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tr.Calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(tr.Calls))
	}
	if tr.Calls[0].Name != "Bash" || tr.Calls[0].Output != "ok  example.com/pkg  0.12s" {
		t.Errorf("call 0 wrong: %+v", tr.Calls[0])
	}
	if got := tr.Calls[0].StringInput("command"); got != "go test ./..." {
		t.Errorf("expected command input, got %q", got)
	}
	if tr.Calls[1].Name != "Read" || tr.Calls[1].Output != "" {
		t.Errorf("call 1 wrong: %+v", tr.Calls[1])
	}
	if tr.Calls[0].Index != 0 || tr.Calls[1].Index != 1 {
		t.Errorf("indices wrong: %d %d", tr.Calls[0].Index, tr.Calls[1].Index)
	}
}

func TestParseFileResultContentAsBlocks(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"pytest"}}]}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":[{"type":"text","text":"3 passed"},{"type":"text","text":"in 0.5s"}]}]}}`,
	)

	tr, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tr.Calls[0].Output != "3 passed\nin 0.5s" {
		t.Errorf("expected joined text blocks, got %q", tr.Calls[0].Output)
	}
}

func TestParseFileSkipsMalformedLines(t *testing.T) {
	path := writeTranscript(t,
		`not json at all`,
		`{"type":"assistant","message":{"role":"assistant","content":"plain text message"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Write","input":{"file_path":"a.go"}}]}}`,
	)

	tr, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tr.Calls) != 1 || tr.Calls[0].Name != "Write" {
		t.Errorf("expected 1 Write call, got %+v", tr.Calls)
	}
}

func TestLastNamedAndCallsNamed(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"TodoWrite","input":{"note":"first"}}]}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t2","name":"Bash","input":{"command":"ls"}}]}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t3","name":"TodoWrite","input":{"note":"second"}}]}}`,
	)

	tr, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := len(tr.CallsNamed("TodoWrite")); got != 2 {
		t.Errorf("expected 2 TodoWrite calls, got %d", got)
	}
	last := tr.LastNamed("TodoWrite")
	if last == nil || last.StringInput("note") != "second" {
		t.Errorf("expected last TodoWrite to be second, got %+v", last)
	}
	if tr.LastNamed("Task") != nil {
		t.Error("expected nil for absent tool name")
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}
