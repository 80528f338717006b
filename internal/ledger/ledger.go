package ledger

import (
	"strings"
	"time"

	"github.com/swarmgate/swarmgate/internal/session"
)

// Reserved declaration keys. Declaring PlanKey registers the governing
// plan; declaring PlanContentKey records that the plan's detailed content
// has been captured.
const (
	PlanKey        = "main_task_id"
	PlanContentKey = "orchestration_plan"
)

// WorkUnitPrefix is the naming convention for work-unit declarations:
// a key "subtask_<id>" registers work unit <id>.
const WorkUnitPrefix = "subtask_"

// Declare records an evidence declaration against the session.
//
// Declaring a new governing plan unconditionally discards all prior work
// units, declarations, and action log for the session (only the
// enforcement flag survives), even when the same plan id is declared
// twice in a row. The plan declaration itself is then the first entry of
// the new history.
func Declare(rec *session.Record, key, value string) {
	if key == "" {
		return
	}

	if key == PlanKey {
		rec.ResetForPlan(value)
	}
	if key == PlanContentKey {
		rec.PlanPending = false
		rec.PlanCaptured = true
	}

	rec.Declarations = append(rec.Declarations, session.Declaration{
		Key:   key,
		Value: value,
		At:    time.Now().UTC(),
	})
}

// WorkUnits recomputes the registered work-unit set from the full
// declaration history. It is recomputed on every query rather than
// cached, so a unit "forgotten" by omission from later declarations
// still counts: registration is monotonic within a session and there is
// no de-registration. Order of first registration is preserved.
func WorkUnits(rec *session.Record) []string {
	var units []string
	seen := make(map[string]bool)
	for _, d := range rec.Declarations {
		if !strings.HasPrefix(d.Key, WorkUnitPrefix) {
			continue
		}
		id := strings.TrimPrefix(d.Key, WorkUnitPrefix)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		units = append(units, id)
	}
	return units
}

// HasWorkUnits reports whether at least one work unit is registered.
func HasWorkUnits(rec *session.Record) bool {
	for _, d := range rec.Declarations {
		if strings.HasPrefix(d.Key, WorkUnitPrefix) && len(d.Key) > len(WorkUnitPrefix) {
			return true
		}
	}
	return false
}
