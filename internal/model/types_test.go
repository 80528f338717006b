package model

import "testing"

func TestStringParam(t *testing.T) {
	a := &Action{Tool: "Bash", Input: map[string]any{"command": "ls", "timeout": 5000}}

	if got := a.StringParam("command"); got != "ls" {
		t.Errorf("expected ls, got %q", got)
	}
	if got := a.StringParam("timeout"); got != "" {
		t.Errorf("expected empty string for non-string param, got %q", got)
	}
	if got := a.StringParam("missing"); got != "" {
		t.Errorf("expected empty string for missing param, got %q", got)
	}
}

func TestStringParamNilInput(t *testing.T) {
	a := &Action{Tool: "Read"}
	if got := a.StringParam("file_path"); got != "" {
		t.Errorf("expected empty string for nil input, got %q", got)
	}
}

func TestDeclarationAccessors(t *testing.T) {
	a := &Action{
		Tool:  "mcp__orchestrator__memory_store",
		Input: map[string]any{"key": "subtask_impl", "value": "in_progress"},
	}
	if a.DeclarationKey() != "subtask_impl" {
		t.Errorf("expected subtask_impl, got %q", a.DeclarationKey())
	}
	if a.DeclarationValue() != "in_progress" {
		t.Errorf("expected in_progress, got %q", a.DeclarationValue())
	}
}
