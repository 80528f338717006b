package evidence

// Entry kinds recorded in the evidence log.
const (
	KindDeclaration = "declaration"
	KindDecision    = "decision"
	KindAudit       = "audit"
)

// Entry is one line in the hash-chained JSONL evidence log. All fields
// are flat scalars (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp string `json:"ts"`
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Key       string `json:"key,omitempty"`
	Value     string `json:"value,omitempty"`
	Tool      string `json:"tool,omitempty"`
	Category  string `json:"category,omitempty"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RuleID    string `json:"rule_id,omitempty"`
	PrevHash  string `json:"prev_hash"`
}
