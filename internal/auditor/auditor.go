// Package auditor implements the completion audit: three independently
// blocking checks over the full session transcript, run once per
// termination attempt. The transcript, not the live session record, is
// the evidence source here; the record can claim anything, the
// transcript shows what actually ran.
package auditor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/swarmgate/swarmgate/internal/config"
	"github.com/swarmgate/swarmgate/internal/transcript"
)

// Auditor holds the verification signatures and marker patterns the
// checks scan with. Built-in tables plus anything config appends.
type Auditor struct {
	commands []string
	markers  []*regexp.Regexp
}

// New builds an Auditor from configuration. Extra marker patterns must
// be valid regexps.
func New(v config.Verification) (*Auditor, error) {
	a := &Auditor{
		commands: append([]string{}, verificationCommands...),
		markers:  append([]*regexp.Regexp{}, passFailPatterns...),
	}
	a.commands = append(a.commands, v.Commands...)
	for _, pattern := range v.Markers {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("verification marker %q: %w", pattern, err)
		}
		a.markers = append(a.markers, re)
	}
	return a, nil
}

// Result is the audit verdict: binary allow/block with the per-check
// breakdown and an itemized reason.
type Result struct {
	Allowed bool    `json:"allowed"`
	Checks  []Check `json:"checks"`
	Reason  string  `json:"reason"`
}

// Audit runs all three checks and assembles the verdict. The result is
// derived fresh from the transcript on every call, never cached: any fix
// the agent applies changes the next audit's input.
//
// guardActive means this audit was triggered while a prior audit for the
// same termination attempt is still in flight; allow immediately rather
// than loop. A new attempt after a fix arrives without the flag and gets
// a full re-audit.
func (a *Auditor) Audit(tr *transcript.Transcript, guardActive bool) Result {
	if guardActive {
		return Result{
			Allowed: true,
			Reason:  "completion audit already in progress for this attempt",
		}
	}

	checks := []Check{
		a.checkOutstanding(tr),
		a.checkVerification(tr),
		a.checkErrors(tr),
	}

	var failed []string
	for _, c := range checks {
		if !c.Passed {
			failed = append(failed, c.Detail)
		}
	}

	if len(failed) == 0 {
		return Result{
			Allowed: true,
			Checks:  checks,
			Reason:  "completion audit passed: no outstanding work, verification evidence present, no unresolved failures",
		}
	}
	return Result{
		Allowed: false,
		Checks:  checks,
		Reason:  strings.Join(failed, "\n\n"),
	}
}
