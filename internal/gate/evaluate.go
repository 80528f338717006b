package gate

import (
	"fmt"

	"github.com/swarmgate/swarmgate/internal/ledger"
	"github.com/swarmgate/swarmgate/internal/model"
	"github.com/swarmgate/swarmgate/internal/session"
)

// State is the evaluator's view of a session record.
type State string

const (
	StateInactive     State = "inactive"       // enforcement off, everything passes
	StateNoPlan       State = "no_plan"        // enforcement on, no governing plan
	StatePlanNoWork   State = "plan_no_work"   // plan set, zero registered work units
	StatePlanWithWork State = "plan_with_work" // plan set, at least one work unit
)

// StateOf derives the evaluator state from a session record.
func StateOf(rec *session.Record) State {
	switch {
	case !rec.EnforcementActive:
		return StateInactive
	case !rec.HasPlan():
		return StateNoPlan
	case !ledger.HasWorkUnits(rec):
		return StatePlanNoWork
	default:
		return StatePlanWithWork
	}
}

// Evaluate is a pure function of (session state, action, classification).
//
// Rule chain, first match wins (the order must not be changed):
//  1. Inactive: allow everything
//  2. Governance and capability-load: allow unconditionally; these are how
//     the agent escapes a blocked state
//  3. No plan + not a declaration: deny, plan registration is the
//     universal prerequisite
//  4. Privileged/inspective without a work unit: deny
//  5. Privileged/inspective with work units: allow
//  6. Delegation with a plan: allow (work units are deferred to the
//     sub-agent's own actions)
//  7. Everything else (declarations, unclassified): allow
func Evaluate(rec *session.Record, action *model.Action, cat model.Category) model.EvalResult {
	state := StateOf(rec)

	if state == StateInactive {
		return model.EvalResult{
			Decision: model.Allow,
			Reason:   "enforcement not active for this session",
			RuleID:   "gate.inactive",
		}
	}

	switch cat {
	case model.Governance:
		return model.EvalResult{
			Decision: model.Allow,
			Reason:   "governance action: orchestration tools are always allowed",
			RuleID:   "gate.governance.allow",
		}
	case model.CapabilityLoad:
		return model.EvalResult{
			Decision: model.Allow,
			Reason:   "capability load: loading a capability is not performing work",
			RuleID:   "gate.capability.allow",
		}
	}

	if state == StateNoPlan && cat != model.Declaration {
		return model.EvalResult{
			Decision: model.Deny,
			Reason: fmt.Sprintf(
				"ORCHESTRATION REQUIRED: no governing plan is registered for this session. "+
					"Run the orchestrator (orchestrate_task), then declare the plan id with "+
					"memory_store key %q before using %s.",
				ledger.PlanKey, action.Tool),
			RuleID: "gate.no_plan.deny",
		}
	}

	if cat == model.Privileged || cat == model.Inspective {
		if state == StatePlanNoWork {
			return model.EvalResult{
				Decision: model.Deny,
				Reason: fmt.Sprintf(
					"SUBTASK TRACKING REQUIRED: plan %q has no registered work units. "+
						"Declare the subtask you are working on with memory_store key "+
						"%q<id> (value: its status) before using %s.",
					rec.MainTaskID, ledger.WorkUnitPrefix, action.Tool),
				RuleID: "gate.no_work.deny",
			}
		}
		return model.EvalResult{
			Decision: model.Allow,
			Reason:   fmt.Sprintf("plan %q with active work units: %s authorized", rec.MainTaskID, action.Tool),
			RuleID:   "gate.work.allow",
		}
	}

	if cat == model.Delegation {
		return model.EvalResult{
			Decision: model.Allow,
			Reason:   fmt.Sprintf("delegation under plan %q: work-unit registration is deferred to the sub-agent", rec.MainTaskID),
			RuleID:   "gate.delegation.allow",
		}
	}

	if cat == model.Unclassified {
		// Never pretend policy reviewed something it cannot classify.
		return model.EvalResult{
			Decision: model.Allow,
			Reason:   fmt.Sprintf("allowed, unknown tool type %q (not evaluated by policy)", action.Tool),
			RuleID:   "gate.unclassified.allow",
		}
	}

	return model.EvalResult{
		Decision: model.Allow,
		Reason:   "declaration recorded",
		RuleID:   "gate.declaration.allow",
	}
}
