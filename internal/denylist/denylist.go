// Package denylist screens shell commands for destructive patterns.
// The screen is independent of the session-state rules: a command that
// matches is denied even in a fully authorized session. An allowlist
// override runs first so safe lookalikes (process listings, browser
// cleanup) never trip the blocked patterns.
package denylist

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/swarmgate/swarmgate/internal/config"
)

// defaultBlocked are the destructive command shapes that are always
// screened.
var defaultBlocked = []*regexp.Regexp{
	// filesystem destruction
	regexp.MustCompile(`(?i)\brm\s+-(rf|fr)\s+(/|~)(\s|$)`),
	regexp.MustCompile(`(?i)\bdd\s+if=/dev/(zero|random|urandom)`),
	regexp.MustCompile(`(?i)\bmkfs\.`),
	regexp.MustCompile(`(?i)>\s*/dev/sd[a-z]`),
	regexp.MustCompile(`(?i)\bchmod\s+-R\s+777\s+/(\s|$)`),
	// privilege escalation and history rewriting
	regexp.MustCompile(`(?i)\bsudo\s+(su|-i)\b`),
	regexp.MustCompile(`(?i)\bgit\s+push\s+(--force|-f)\b`),
	// long-running dev processes the user owns
	regexp.MustCompile(`(?i)\b(pkill|killall|kill)\b.*\bnode\b`),
	regexp.MustCompile(`(?i)\bpkill\s+-f\s+\S*(server|vite|index\.js)`),
	regexp.MustCompile(`(?i)\blsof\b.*\|\s*xargs\s+kill`),
}

// defaultAllowed override the blocked list: inspection commands and
// browser-automation cleanup that would otherwise look like process kills.
var defaultAllowed = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(pkill|kill)\b.*\b(chrome|chromium|playwright)\b`),
	regexp.MustCompile(`(?i)^\s*ps\s+aux`),
	regexp.MustCompile(`(?i)^\s*lsof\s+-i\b`),
}

// Denylist holds the compiled screen: built-in tables plus anything
// config appends.
type Denylist struct {
	blocked []*regexp.Regexp
	allowed []*regexp.Regexp
}

// New builds a Denylist from the defaults plus extra config patterns.
func New(extra config.DenylistPatterns) (*Denylist, error) {
	d := &Denylist{
		blocked: append([]*regexp.Regexp{}, defaultBlocked...),
		allowed: append([]*regexp.Regexp{}, defaultAllowed...),
	}
	for _, p := range extra.Blocked {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("denylist blocked pattern %q: %w", p, err)
		}
		d.blocked = append(d.blocked, re)
	}
	for _, p := range extra.Allowed {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("denylist allowed pattern %q: %w", p, err)
		}
		d.allowed = append(d.allowed, re)
	}
	return d, nil
}

// NewDefault builds a Denylist with only the built-in patterns.
func NewDefault() *Denylist {
	d, _ := New(config.DenylistPatterns{})
	return d
}

// Screen checks a shell command. The allowed list is consulted first,
// then the blocked list, then structural pipe-to-shell detection.
// Returns the matched pattern for the denial reason.
func (d *Denylist) Screen(command string) (bool, string) {
	if command == "" {
		return false, ""
	}
	for _, re := range d.allowed {
		if re.MatchString(command) {
			return false, ""
		}
	}
	for _, re := range d.blocked {
		if re.MatchString(command) {
			return true, re.String()
		}
	}
	if isPipeToShell(command) {
		return true, "download piped directly into a shell"
	}
	return false, ""
}

// isPipeToShell detects "curl ... | sh" and friends: a downloader whose
// output feeds a shell through a pipe.
func isPipeToShell(command string) bool {
	cmd := strings.ToLower(command)
	if !strings.Contains(cmd, "|") {
		return false
	}
	hasDownloader := strings.Contains(cmd, "curl") || strings.Contains(cmd, "wget")
	if !hasDownloader {
		return false
	}
	parts := strings.Split(cmd, "|")
	for _, part := range parts[1:] {
		trimmed := strings.TrimSpace(part)
		for _, shell := range []string{"sh", "bash", "zsh", "fish"} {
			if trimmed == shell || strings.HasPrefix(trimmed, shell+" ") {
				return true
			}
		}
	}
	return false
}
