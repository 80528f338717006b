package session

import "time"

// Declaration is one recorded evidence fact. The history is append-only
// and never pruned within a session.
type Declaration struct {
	Key   string    `json:"key"`
	Value string    `json:"value"`
	At    time.Time `json:"at"`
}

// ActionEntry is one privileged action taken, tagged with the work-unit
// set active at the time. Kept for traceability, not enforcement.
type ActionEntry struct {
	Tool      string    `json:"tool"`
	WorkUnits []string  `json:"work_units"`
	At        time.Time `json:"at"`
}

// Record is the single durable session entity. A record is either fresh
// (all defaults, no governing plan) or active.
type Record struct {
	SessionStarted    time.Time     `json:"session_started"`
	LastActivity      time.Time     `json:"last_activity"`
	EnforcementActive bool          `json:"enforcement_active"`
	MainTaskID        string        `json:"main_task_id,omitempty"`
	PlanPending       bool          `json:"plan_pending"`
	PlanCaptured      bool          `json:"plan_captured"`
	Declarations      []Declaration `json:"declarations"`
	Actions           []ActionEntry `json:"actions"`
}

// NewRecord returns a fresh session record.
func NewRecord() *Record {
	now := time.Now().UTC()
	return &Record{
		SessionStarted: now,
		LastActivity:   now,
	}
}

// HasPlan reports whether a governing plan has been registered.
func (r *Record) HasPlan() bool { return r.MainTaskID != "" }

// ResetForPlan discards all session evidence for a newly declared plan.
// A new plan means a new unit of work; stale work units must not silently
// authorize it. Only the enforcement flag survives.
func (r *Record) ResetForPlan(planID string) {
	active := r.EnforcementActive
	now := time.Now().UTC()
	*r = Record{
		SessionStarted:    now,
		LastActivity:      now,
		EnforcementActive: active,
		MainTaskID:        planID,
	}
}
