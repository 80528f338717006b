package model

// Decision is the gate's verdict on a single action.
type Decision string

const (
	Allow Decision = "allow"
	Deny  Decision = "deny"
	Ask   Decision = "ask"
)

// Category is the policy bucket an action name resolves to.
// Classification priority is fixed: Governance → CapabilityLoad →
// Declaration → Privileged → Inspective → Delegation → Unclassified.
// A name matching two categories always resolves to the earliest one.
type Category string

const (
	Governance     Category = "governance"
	CapabilityLoad Category = "capability_load"
	Declaration    Category = "declaration"
	Privileged     Category = "privileged"
	Inspective     Category = "inspective"
	Delegation     Category = "delegation"
	Unclassified   Category = "unclassified"
)

// Action is one intercepted tool call from the host runtime.
type Action struct {
	Tool  string         `json:"tool"`
	Input map[string]any `json:"input"`
}

// StringParam returns a string-typed input parameter, or "" if absent or
// not a string. Host runtimes send free-form JSON; coerce defensively.
func (a *Action) StringParam(name string) string {
	if a.Input == nil {
		return ""
	}
	if s, ok := a.Input[name].(string); ok {
		return s
	}
	return ""
}

// DeclarationKey returns the evidence key for declaration-channel tools.
func (a *Action) DeclarationKey() string { return a.StringParam("key") }

// DeclarationValue returns the evidence value for declaration-channel tools.
func (a *Action) DeclarationValue() string { return a.StringParam("value") }

// EvalResult is the output of policy evaluation.
type EvalResult struct {
	Decision Decision `json:"decision"`
	Reason   string   `json:"reason"`
	RuleID   string   `json:"rule_id,omitempty"`
}
