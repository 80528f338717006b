package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MatchRule matches an action name by prefix or substring. A rule with
// both fields empty matches nothing.
type MatchRule struct {
	Prefix    string `yaml:"prefix,omitempty"`
	Substring string `yaml:"substring,omitempty"`
}

// Matches reports whether the rule applies to the given action name.
func (r MatchRule) Matches(name string) bool {
	if r.Prefix != "" && strings.HasPrefix(name, r.Prefix) {
		return true
	}
	if r.Substring != "" && strings.Contains(name, r.Substring) {
		return true
	}
	return false
}

// ClassifierRules holds extra matching rules appended per category.
// Extra rules never change the fixed category priority order.
type ClassifierRules struct {
	Governance     []MatchRule `yaml:"governance,omitempty"`
	CapabilityLoad []MatchRule `yaml:"capability_load,omitempty"`
	Declaration    []MatchRule `yaml:"declaration,omitempty"`
	Privileged     []MatchRule `yaml:"privileged,omitempty"`
	Inspective     []MatchRule `yaml:"inspective,omitempty"`
	Delegation     []MatchRule `yaml:"delegation,omitempty"`
}

// DenylistPatterns holds extra command-screen patterns. All patterns
// are regular expressions matched case-insensitively; allowed overrides
// blocked.
type DenylistPatterns struct {
	Blocked []string `yaml:"blocked,omitempty"`
	Allowed []string `yaml:"allowed,omitempty"`
}

// Verification configures how the completion auditor recognizes a test run.
type Verification struct {
	// Commands are substrings identifying a verification command.
	Commands []string `yaml:"commands,omitempty"`
	// Markers are regexp patterns a captured output must contain for the
	// run to count as real verification (not merely an exit code).
	Markers []string `yaml:"markers,omitempty"`
}

// Config holds all configurable gate parameters.
type Config struct {
	StateDir          string           `yaml:"state_dir"`
	EvidenceLog       string           `yaml:"evidence_log"`
	Namespace         string           `yaml:"orchestrator_namespace"`
	InactivityTimeout time.Duration    `yaml:"inactivity_timeout"`
	AbsoluteTimeout   time.Duration    `yaml:"absolute_timeout"`
	Classifier        ClassifierRules  `yaml:"classifier"`
	Verification      Verification     `yaml:"verification"`
	Denylist          DenylistPatterns `yaml:"denylist"`
}

// DefaultNamespace is the tool-name prefix of the orchestrator MCP server.
// Observing any tool under it activates enforcement for the session.
const DefaultNamespace = "mcp__orchestrator__"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StateDir:          filepath.Join(".claude", "state"),
		Namespace:         DefaultNamespace,
		InactivityTimeout: 60 * time.Second,
		AbsoluteTimeout:   30 * time.Minute,
	}
}

// DefaultPath is where Load looks when no path is given.
const DefaultPath = ".claude/swarmgate.yaml"

// Load reads configuration from a YAML file. Empty path falls back to
// DefaultPath. Missing file returns defaults. Invalid YAML returns an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.StateDir == "" {
		cfg.StateDir = Default().StateDir
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.InactivityTimeout <= 0 {
		cfg.InactivityTimeout = Default().InactivityTimeout
	}
	if cfg.AbsoluteTimeout <= 0 {
		cfg.AbsoluteTimeout = Default().AbsoluteTimeout
	}

	return cfg, nil
}

// EvidenceLogPath resolves the evidence log location. Defaults to
// evidence.log inside the state directory.
func (c *Config) EvidenceLogPath() string {
	if c.EvidenceLog != "" {
		return c.EvidenceLog
	}
	return filepath.Join(c.StateDir, "evidence.log")
}

// SessionPath resolves the session record location.
func (c *Config) SessionPath() string {
	return filepath.Join(c.StateDir, "session.json")
}

// DefaultYAML returns a commented YAML string for swarmgate init.
func DefaultYAML() string {
	return `# swarmgate configuration
# Generated by: swarmgate init
#
# All fields are optional; omitted fields keep their defaults.

# Directory for the session record and evidence log, relative to the
# working root the agent runs in.
state_dir: .claude/state

# Append-only evidence log (hash-chained JSONL). Defaults to
# <state_dir>/evidence.log.
#evidence_log: .claude/state/evidence.log

# Tool-name prefix of the orchestrator MCP server. Observing any tool
# under this prefix activates enforcement for the current session.
orchestrator_namespace: mcp__orchestrator__

# A session untouched for longer than this is treated as fresh.
inactivity_timeout: 60s

# Hard ceiling on session age regardless of activity.
absolute_timeout: 30m

# Extra classifier rules, appended to the built-in table per category.
# Category priority is fixed: governance, capability_load, declaration,
# privileged, inspective, delegation. Each rule matches by prefix or
# substring against the action name.
#classifier:
#  privileged:
#    - prefix: mcp__deploybot__
#  inspective:
#    - substring: read_dashboard

# Completion-audit verification signatures. A command containing one of
# these substrings, whose captured output matches one of the marker
# patterns, counts as a real test run.
#verification:
#  commands: ["go test", "npm test"]
#  markers: ['(?m)^ok\s+\S+', '\d+ passing']

# Dangerous-command screen for privileged shell actions, applied on top
# of the built-in patterns (rm -rf /, pipe-to-shell, dev-process kills).
# Case-insensitive regular expressions; allowed overrides blocked.
#denylist:
#  blocked:
#    - 'terraform\s+destroy'
#  allowed:
#    - 'pkill .*grunt'
`
}
