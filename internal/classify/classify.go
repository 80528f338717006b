package classify

import (
	"github.com/swarmgate/swarmgate/internal/config"
	"github.com/swarmgate/swarmgate/internal/model"
)

// priority is the fixed evaluation order. An action name matching two
// categories always resolves to the earliest-listed one.
var priority = []model.Category{
	model.Governance,
	model.CapabilityLoad,
	model.Declaration,
	model.Privileged,
	model.Inspective,
	model.Delegation,
}

// Classifier maps an action's declared name to exactly one category via
// a static lookup table. It is a pure, total function over action names:
// anything unmatched is Unclassified, never an error.
type Classifier struct {
	rules map[model.Category][]config.MatchRule
}

// New builds a classifier from the built-in table plus any extra
// per-category rules from config. Governance matches the orchestrator's
// plan verbs by substring rather than a blanket namespace prefix so that
// the evidence-channel tools (memory_store/memory_get) stay Declaration
// despite Governance's higher priority.
func New(extra config.ClassifierRules) *Classifier {
	rules := map[model.Category][]config.MatchRule{
		model.Governance: {
			{Substring: "orchestrate_task"},
			{Substring: "predict_decomposition"},
			{Substring: "execute_plan"},
			{Substring: "update_subtask_status"},
		},
		model.CapabilityLoad: {
			{Prefix: "Skill"},
		},
		model.Declaration: {
			{Substring: "memory_store"},
			{Substring: "memory_get"},
		},
		model.Privileged: {
			{Prefix: "Bash"},
			{Prefix: "Write"},
			{Prefix: "Edit"},
			{Prefix: "MultiEdit"},
			{Prefix: "NotebookEdit"},
			{Substring: "create_"},
			{Substring: "push_"},
			{Substring: "execute_"},
			{Substring: "deploy"},
			{Substring: "click"},
			{Substring: "fill"},
			{Substring: "navigate"},
		},
		model.Inspective: {
			{Prefix: "Read"},
			{Prefix: "Grep"},
			{Prefix: "Glob"},
			{Prefix: "WebSearch"},
			{Prefix: "WebFetch"},
			{Prefix: "TodoWrite"},
			{Substring: "get_"},
			{Substring: "get-"},
			{Substring: "list_"},
			{Substring: "search_"},
		},
		model.Delegation: {
			{Prefix: "Task"},
		},
	}

	rules[model.Governance] = append(rules[model.Governance], extra.Governance...)
	rules[model.CapabilityLoad] = append(rules[model.CapabilityLoad], extra.CapabilityLoad...)
	rules[model.Declaration] = append(rules[model.Declaration], extra.Declaration...)
	rules[model.Privileged] = append(rules[model.Privileged], extra.Privileged...)
	rules[model.Inspective] = append(rules[model.Inspective], extra.Inspective...)
	rules[model.Delegation] = append(rules[model.Delegation], extra.Delegation...)

	return &Classifier{rules: rules}
}

// Classify returns the policy category for an action name.
func (c *Classifier) Classify(tool string) model.Category {
	for _, cat := range priority {
		for _, r := range c.rules[cat] {
			if r.Matches(tool) {
				return cat
			}
		}
	}
	return model.Unclassified
}
