package ledger

import (
	"testing"

	"github.com/swarmgate/swarmgate/internal/session"
)

func TestDeclarePlanRegistersGoverningPlan(t *testing.T) {
	rec := session.NewRecord()
	Declare(rec, PlanKey, "task-789")

	if rec.MainTaskID != "task-789" {
		t.Errorf("expected task-789, got %q", rec.MainTaskID)
	}
	if len(rec.Declarations) != 1 || rec.Declarations[0].Key != PlanKey {
		t.Errorf("plan declaration must be first entry of the new history, got %+v", rec.Declarations)
	}
}

func TestDeclarePlanDiscardsPriorEvidence(t *testing.T) {
	rec := session.NewRecord()
	rec.EnforcementActive = true
	Declare(rec, PlanKey, "task-1")
	Declare(rec, "subtask_analysis", "in_progress")
	Declare(rec, PlanContentKey, `{"subtasks":["a"]}`)

	Declare(rec, PlanKey, "task-2")

	if rec.MainTaskID != "task-2" {
		t.Errorf("expected task-2, got %q", rec.MainTaskID)
	}
	if !rec.EnforcementActive {
		t.Error("enforcement flag must survive a plan declaration")
	}
	if rec.PlanCaptured {
		t.Error("plan_captured must reset with a new plan")
	}
	if len(WorkUnits(rec)) != 0 {
		t.Errorf("stale work units must not authorize a new plan, got %v", WorkUnits(rec))
	}
}

// Declaring the same plan id twice in a row still clears prior work
// units both times.
func TestDeclarePlanIdempotentReset(t *testing.T) {
	rec := session.NewRecord()
	Declare(rec, PlanKey, "task-1")
	Declare(rec, "subtask_a", "in_progress")

	Declare(rec, PlanKey, "task-1")

	if len(WorkUnits(rec)) != 0 {
		t.Errorf("repeated plan declaration must clear work units, got %v", WorkUnits(rec))
	}
}

func TestDeclarePlanContentSetsCaptured(t *testing.T) {
	rec := session.NewRecord()
	rec.PlanPending = true
	Declare(rec, PlanContentKey, `{"subtasks":["a","b"]}`)

	if !rec.PlanCaptured {
		t.Error("expected plan_captured after orchestration_plan declaration")
	}
	if rec.PlanPending {
		t.Error("expected plan_pending cleared after capture")
	}
}

func TestWorkUnitsRecomputedFromHistory(t *testing.T) {
	rec := session.NewRecord()
	Declare(rec, "subtask_analysis", "in_progress")
	Declare(rec, "subtask_implementation", "pending")
	Declare(rec, "test_results", "42 passed")
	Declare(rec, "subtask_analysis", "complete") // re-declaration, no duplicate

	units := WorkUnits(rec)
	if len(units) != 2 {
		t.Fatalf("expected 2 work units, got %v", units)
	}
	if units[0] != "analysis" || units[1] != "implementation" {
		t.Errorf("expected [analysis implementation], got %v", units)
	}
}

func TestWorkUnitsIgnoresBarePrefix(t *testing.T) {
	rec := session.NewRecord()
	Declare(rec, "subtask_", "no id")

	if HasWorkUnits(rec) {
		t.Error("a bare subtask_ key must not register a work unit")
	}
}

func TestDeclareEmptyKeyIgnored(t *testing.T) {
	rec := session.NewRecord()
	Declare(rec, "", "value")
	if len(rec.Declarations) != 0 {
		t.Errorf("empty key must not be recorded, got %+v", rec.Declarations)
	}
}
