package gate

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/swarmgate/swarmgate/internal/classify"
	"github.com/swarmgate/swarmgate/internal/config"
	"github.com/swarmgate/swarmgate/internal/denylist"
	"github.com/swarmgate/swarmgate/internal/evidence"
	"github.com/swarmgate/swarmgate/internal/ledger"
	"github.com/swarmgate/swarmgate/internal/model"
	"github.com/swarmgate/swarmgate/internal/session"
)

// Gatekeeper ties the session store, classifier, ledger, and evaluator
// into the per-action decision cycle: load state, classify, evaluate,
// persist, respond. One invocation per attempted action; everything
// in-memory lives for the single invocation.
type Gatekeeper struct {
	cfg        *config.Config
	store      *session.Store
	classifier *classify.Classifier
	screen     *denylist.Denylist
	evlog      *evidence.Log
}

// New creates a Gatekeeper from configuration. The evidence log is
// best-effort: if it cannot be opened, decisions still flow.
func New(cfg *config.Config) *Gatekeeper {
	g := &Gatekeeper{
		cfg:        cfg,
		store:      session.NewStore(cfg.SessionPath(), cfg.InactivityTimeout, cfg.AbsoluteTimeout),
		classifier: classify.New(cfg.Classifier),
	}
	if screen, err := denylist.New(cfg.Denylist); err == nil {
		g.screen = screen
	} else {
		fmt.Fprintf(os.Stderr, "swarmgate: denylist config invalid, using built-in patterns: %v\n", err)
		g.screen = denylist.NewDefault()
	}
	if log, err := evidence.Open(cfg.EvidenceLogPath()); err == nil {
		g.evlog = log
	} else {
		fmt.Fprintf(os.Stderr, "swarmgate: evidence log unavailable: %v\n", err)
	}
	return g
}

// Close releases the evidence log.
func (g *Gatekeeper) Close() error {
	if g.evlog != nil {
		return g.evlog.Close()
	}
	return nil
}

// Process runs the full decision cycle for one action. It never returns
// an error: any internal fault resolves to allow with a reason naming
// the failure. The gate's unavailability must never become a
// denial-of-service against legitimate work; only a policy denial is a
// true denial.
func (g *Gatekeeper) Process(sessionID string, action *model.Action) (result model.EvalResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.EvalResult{
				Decision: model.Allow,
				Reason:   fmt.Sprintf("allow, fault: internal error during evaluation: %v", r),
				RuleID:   "gate.fault.allow",
			}
		}
	}()

	rec, err := g.store.Load()
	if err != nil {
		return model.EvalResult{
			Decision: model.Allow,
			Reason:   fmt.Sprintf("allow, fault: session state unavailable: %v", err),
			RuleID:   "gate.fault.allow",
		}
	}

	cat := g.classifier.Classify(action.Tool)

	// Observing any orchestrator-namespace tool (or a governance verb)
	// activates enforcement for this session. Idempotent, session-scoped.
	if !rec.EnforcementActive {
		if cat == model.Governance || strings.HasPrefix(action.Tool, g.cfg.Namespace) {
			rec.EnforcementActive = true
		}
	}

	// Plan content is expected after each orchestration run.
	if cat == model.Governance && strings.Contains(action.Tool, "orchestrate_task") && !rec.PlanCaptured {
		rec.PlanPending = true
	}

	if cat == model.Declaration && strings.Contains(action.Tool, "memory_store") {
		key, value := action.DeclarationKey(), action.DeclarationValue()
		ledger.Declare(rec, key, value)
		g.record(evidence.Entry{
			SessionID: sessionID,
			Kind:      evidence.KindDeclaration,
			Key:       key,
			Value:     value,
			Tool:      action.Tool,
		})
	}

	if denied, res := g.screenCommand(rec, action, cat); denied {
		result = res
	} else {
		result = Evaluate(rec, action, cat)
	}

	if result.Decision == model.Allow && cat == model.Privileged {
		rec.Actions = append(rec.Actions, session.ActionEntry{
			Tool:      action.Tool,
			WorkUnits: ledger.WorkUnits(rec),
			At:        time.Now().UTC(),
		})
	}

	if err := g.store.Save(rec); err != nil {
		// Persistence failure degrades traceability, not authorization.
		fmt.Fprintf(os.Stderr, "swarmgate: save session: %v\n", err)
	}

	g.record(evidence.Entry{
		SessionID: sessionID,
		Kind:      evidence.KindDecision,
		Tool:      action.Tool,
		Category:  string(cat),
		Decision:  string(result.Decision),
		Reason:    result.Reason,
		RuleID:    result.RuleID,
	})

	return result
}

// Check classifies and evaluates without persisting any state mutation.
// Dry-run mode.
func (g *Gatekeeper) Check(action *model.Action) (model.Category, model.EvalResult) {
	cat := g.classifier.Classify(action.Tool)
	rec, err := g.store.Load()
	if err != nil {
		return cat, model.EvalResult{
			Decision: model.Allow,
			Reason:   fmt.Sprintf("allow, fault: session state unavailable: %v", err),
			RuleID:   "gate.fault.allow",
		}
	}
	if denied, res := g.screenCommand(rec, action, cat); denied {
		return cat, res
	}
	return cat, Evaluate(rec, action, cat)
}

// screenCommand runs the dangerous-command screen on privileged shell
// actions. Independent of the work-unit rules: a declared subtask does
// not license a destructive command. Inactive sessions are untouched.
func (g *Gatekeeper) screenCommand(rec *session.Record, action *model.Action, cat model.Category) (bool, model.EvalResult) {
	if !rec.EnforcementActive || cat != model.Privileged {
		return false, model.EvalResult{}
	}
	blocked, pattern := g.screen.Screen(action.StringParam("command"))
	if !blocked {
		return false, model.EvalResult{}
	}
	return true, model.EvalResult{
		Decision: model.Deny,
		Reason: fmt.Sprintf("DANGEROUS COMMAND BLOCKED: matches %q. "+
			"Ask the user to run this themselves, or extend denylist.allowed in the config if the match is wrong.", pattern),
		RuleID: "gate.denylist.deny",
	}
}

// Snapshot returns the current session record for status reporting.
func (g *Gatekeeper) Snapshot() (*session.Record, error) {
	return g.store.Load()
}

func (g *Gatekeeper) record(entry evidence.Entry) {
	if g.evlog == nil {
		return
	}
	if err := g.evlog.Record(entry); err != nil {
		fmt.Fprintf(os.Stderr, "swarmgate: evidence log: %v\n", err)
	}
}
