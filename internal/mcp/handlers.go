package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/swarmgate/swarmgate/internal/gate"
	"github.com/swarmgate/swarmgate/internal/ledger"
	"github.com/swarmgate/swarmgate/internal/model"
	"github.com/swarmgate/swarmgate/internal/transcript"
)

// --- Input/Output types ---

// CheckInput defines parameters for the gate_check tool.
type CheckInput struct {
	Tool  string         `json:"tool" jsonschema:"action name to evaluate"`
	Input map[string]any `json:"input,omitempty" jsonschema:"action parameters"`
}

// CheckOutput contains the dry-run decision.
type CheckOutput struct {
	Category string `json:"category"`
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
	RuleID   string `json:"rule_id,omitempty"`
}

// DeclareInput defines parameters for the gate_declare tool.
type DeclareInput struct {
	Key   string `json:"key" jsonschema:"declaration key (main_task_id, orchestration_plan, or subtask_<id>)"`
	Value string `json:"value" jsonschema:"declaration value"`
}

// DeclareOutput reports the resulting session state.
type DeclareOutput struct {
	Decision  string   `json:"decision"`
	Reason    string   `json:"reason"`
	State     string   `json:"state"`
	WorkUnits []string `json:"work_units,omitempty"`
}

// StatusInput is empty.
type StatusInput struct{}

// StatusOutput describes the current session record.
type StatusOutput struct {
	State             string   `json:"state"`
	EnforcementActive bool     `json:"enforcement_active"`
	MainTaskID        string   `json:"main_task_id,omitempty"`
	PlanCaptured      bool     `json:"plan_captured"`
	WorkUnits         []string `json:"work_units,omitempty"`
	Declarations      int      `json:"declarations"`
	PrivilegedActions int      `json:"privileged_actions"`
}

// AuditInput defines parameters for the gate_audit tool.
type AuditInput struct {
	TranscriptPath string `json:"transcript_path" jsonschema:"path to the session transcript JSONL"`
}

// AuditCheck is one completion check's verdict.
type AuditCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// AuditOutput contains the audit verdict.
type AuditOutput struct {
	Allowed bool         `json:"allowed"`
	Reason  string       `json:"reason"`
	Checks  []AuditCheck `json:"checks,omitempty"`
}

// --- Handlers ---

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	if input.Tool == "" {
		return nil, CheckOutput{}, fmt.Errorf("tool is required")
	}

	s.mu.Lock()
	g := s.gatekeeper
	s.mu.Unlock()

	cat, result := g.Check(&model.Action{Tool: input.Tool, Input: input.Input})
	return nil, CheckOutput{
		Category: string(cat),
		Decision: string(result.Decision),
		Reason:   result.Reason,
		RuleID:   result.RuleID,
	}, nil
}

func (s *Server) handleDeclare(ctx context.Context, req *mcpsdk.CallToolRequest, input DeclareInput) (*mcpsdk.CallToolResult, DeclareOutput, error) {
	if input.Key == "" {
		return nil, DeclareOutput{}, fmt.Errorf("key is required")
	}

	s.mu.Lock()
	g := s.gatekeeper
	cfg := s.cfg
	s.mu.Unlock()

	// Route through the full decision cycle, same as the hook path.
	result := g.Process(s.sessionID, &model.Action{
		Tool:  cfg.Namespace + "memory_store",
		Input: map[string]any{"key": input.Key, "value": input.Value},
	})

	rec, err := g.Snapshot()
	if err != nil {
		return nil, DeclareOutput{}, fmt.Errorf("read session: %w", err)
	}
	return nil, DeclareOutput{
		Decision:  string(result.Decision),
		Reason:    result.Reason,
		State:     string(gate.StateOf(rec)),
		WorkUnits: ledger.WorkUnits(rec),
	}, nil
}

func (s *Server) handleStatus(ctx context.Context, req *mcpsdk.CallToolRequest, input StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	s.mu.Lock()
	g := s.gatekeeper
	s.mu.Unlock()

	rec, err := g.Snapshot()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("read session: %w", err)
	}
	return nil, StatusOutput{
		State:             string(gate.StateOf(rec)),
		EnforcementActive: rec.EnforcementActive,
		MainTaskID:        rec.MainTaskID,
		PlanCaptured:      rec.PlanCaptured,
		WorkUnits:         ledger.WorkUnits(rec),
		Declarations:      len(rec.Declarations),
		PrivilegedActions: len(rec.Actions),
	}, nil
}

func (s *Server) handleAudit(ctx context.Context, req *mcpsdk.CallToolRequest, input AuditInput) (*mcpsdk.CallToolResult, AuditOutput, error) {
	if input.TranscriptPath == "" {
		return nil, AuditOutput{}, fmt.Errorf("transcript_path is required")
	}

	tr, err := transcript.ParseFile(input.TranscriptPath)
	if err != nil {
		return nil, AuditOutput{}, err
	}

	s.mu.Lock()
	a := s.auditor
	s.mu.Unlock()

	result := a.Audit(tr, false)
	out := AuditOutput{
		Allowed: result.Allowed,
		Reason:  result.Reason,
	}
	for _, c := range result.Checks {
		out.Checks = append(out.Checks, AuditCheck{Name: c.Name, Passed: c.Passed, Detail: c.Detail})
	}
	return nil, out, nil
}
