package auditor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/swarmgate/swarmgate/internal/transcript"
)

// Check is the outcome of one completion check. Any failing check blocks
// termination on its own.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// checkOutstanding inspects the last recorded work-item snapshot. Items
// whose last-known status is not completed block termination, listed with
// in-progress items before not-started items.
func (a *Auditor) checkOutstanding(tr *transcript.Transcript) Check {
	check := Check{Name: "outstanding-work", Passed: true}

	last := tr.LastNamed("TodoWrite")
	if last == nil {
		return check
	}
	todos, ok := last.Input["todos"].([]any)
	if !ok {
		return check
	}

	var inProgress, notStarted []string
	for _, item := range todos {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		content, _ := m["content"].(string)
		status, _ := m["status"].(string)
		switch status {
		case "in_progress", "in progress":
			inProgress = append(inProgress, content)
		case "pending", "not started", "not_started":
			notStarted = append(notStarted, content)
		}
	}
	if len(inProgress) == 0 && len(notStarted) == 0 {
		return check
	}

	var b strings.Builder
	b.WriteString("Outstanding work items remain. Resolve each one or explicitly drop it; do not silently close items.\n")
	if len(inProgress) > 0 {
		b.WriteString("In progress:\n")
		for _, item := range inProgress {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}
	if len(notStarted) > 0 {
		b.WriteString("Not started:\n")
		for _, item := range notStarted {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}
	check.Passed = false
	check.Detail = strings.TrimRight(b.String(), "\n")
	return check
}

// checkVerification requires that every implementation-file mutation is
// followed by a verification command whose captured output contains a
// real pass/fail report. A test run without a recognizable report counts
// as not run.
func (a *Auditor) checkVerification(tr *transcript.Transcript) Check {
	check := Check{Name: "verification-evidence", Passed: true}

	var verifiedAt []int
	for _, c := range tr.Calls {
		if a.isVerificationRun(&c) {
			verifiedAt = append(verifiedAt, c.Index)
		}
	}

	seen := make(map[string]bool)
	var unverified []string
	for _, c := range tr.Calls {
		if !mutationTools[c.Name] {
			continue
		}
		path := c.StringInput("file_path")
		if path == "" || !isImplementationFile(path) || seen[path] {
			continue
		}
		verified := false
		for _, v := range verifiedAt {
			if v > c.Index {
				verified = true
				break
			}
		}
		if !verified {
			seen[path] = true
			unverified = append(unverified, path)
		}
	}
	if len(unverified) == 0 {
		return check
	}

	var b strings.Builder
	b.WriteString("Implementation files were modified without a subsequent verification run with captured pass/fail output:\n")
	for _, path := range unverified {
		fmt.Fprintf(&b, "  - %s\n", path)
	}
	fmt.Fprintf(&b, "Run %s and finish only after its pass/fail report appears in the output.", suggestCommand(unverified))
	check.Passed = false
	check.Detail = b.String()
	return check
}

// checkErrors requires at least as many resolution markers after each
// failing output as the failure markers it contained.
func (a *Auditor) checkErrors(tr *transcript.Transcript) Check {
	check := Check{Name: "unresolved-error", Passed: true}

	var unresolved []string
	for _, c := range tr.Calls {
		if c.Output == "" {
			continue
		}
		failures := countMatches(failurePatterns, c.Output)
		if failures == 0 {
			continue
		}
		resolutions := 0
		for _, later := range tr.Calls {
			if later.Index <= c.Index {
				continue
			}
			resolutions += countMatches(resolutionPatterns, searchableText(&later))
		}
		if resolutions < failures {
			unresolved = append(unresolved, fmt.Sprintf(
				"%s (call #%d): %d failure marker(s), %d resolution marker(s) afterward",
				c.Name, c.Index+1, failures, resolutions))
		}
	}
	if len(unresolved) == 0 {
		return check
	}

	var b strings.Builder
	b.WriteString("Captured output contains failures without matching resolution evidence:\n")
	for _, item := range unresolved {
		fmt.Fprintf(&b, "  - %s\n", item)
	}
	b.WriteString("Address each failure and record the fix before finishing.")
	check.Passed = false
	check.Detail = b.String()
	return check
}

// isVerificationRun reports whether a call executed a known test command
// and its output carries a real pass/fail report.
func (a *Auditor) isVerificationRun(c *transcript.ToolCall) bool {
	if c.Name != "Bash" {
		return false
	}
	command := c.StringInput("command")
	if command == "" {
		return false
	}
	matched := false
	for _, sig := range a.commands {
		if strings.Contains(command, sig) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	return anyMatch(a.markers, c.Output)
}

// isImplementationFile reports whether a path names a source artifact,
// excluding tests, docs, and config/data files.
func isImplementationFile(path string) bool {
	if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	base := strings.ToLower(filepath.Base(path))
	if strings.HasPrefix(base, "test_") ||
		strings.Contains(base, "_test.") ||
		strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		switch strings.ToLower(seg) {
		case "test", "tests", "__tests__", "testdata", "docs", "spec", "specs":
			return false
		}
	}
	return true
}

// suggestCommand picks a test command matching the modified files' language.
func suggestCommand(paths []string) string {
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".go":
			return `a test command (e.g. "go test ./...")`
		case ".py":
			return `a test command (e.g. "pytest")`
		case ".js", ".jsx", ".ts", ".tsx":
			return `a test command (e.g. "npm test")`
		case ".rs":
			return `a test command (e.g. "cargo test")`
		}
	}
	return "your project's test command"
}

// searchableText is everything in a call resolution markers may appear
// in: captured output plus its string-valued inputs.
func searchableText(c *transcript.ToolCall) string {
	parts := []string{c.Output}
	for _, v := range c.Input {
		if s, ok := v.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}
