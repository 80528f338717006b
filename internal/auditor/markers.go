package auditor

import "regexp"

// verificationCommands are substrings identifying a test or verification
// run inside a shell command. Config can append more.
var verificationCommands = []string{
	"go test",
	"go vet",
	"npm test",
	"npm run test",
	"yarn test",
	"pnpm test",
	"pytest",
	"python -m pytest",
	"jest",
	"vitest",
	"cargo test",
	"make test",
	"make check",
	"mvn test",
	"gradle test",
	"rspec",
	"phpunit",
	"tox",
}

// passFailPatterns match real test-report output. A verification command
// whose captured output matches none of these counts as not run: an exit
// code alone is not evidence.
var passFailPatterns = []*regexp.Regexp{
	// go test package lines and verbose test results
	regexp.MustCompile(`(?m)^ok\s+\S+`),
	regexp.MustCompile(`(?m)^(PASS|FAIL)\b`),
	regexp.MustCompile(`--- (PASS|FAIL):`),
	// pytest / jest / mocha summaries
	regexp.MustCompile(`\d+ pass(ed|ing)`),
	regexp.MustCompile(`\d+ fail(ed|ing|ures?)`),
	regexp.MustCompile(`(?m)^Tests:\s+\d+`),
	// rspec / minitest
	regexp.MustCompile(`\d+ examples?, \d+ failures?`),
	regexp.MustCompile(`\d+ tests?, \d+ assertions?`),
	// cargo test
	regexp.MustCompile(`test result: (ok|FAILED)\.`),
	// generic
	regexp.MustCompile(`(?i)\ball tests? passed\b`),
}

// failurePatterns match failure indicators in captured tool output.
var failurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\berror\b`),
	regexp.MustCompile(`(?i)\bexception\b`),
	regexp.MustCompile(`(?m)^Traceback \(most recent call last\)`),
	regexp.MustCompile(`(?m)^panic: `),
	regexp.MustCompile(`command not found`),
	regexp.MustCompile(`(?i)permission denied`),
	regexp.MustCompile(`(?i)\bfatal\b`),
}

// resolutionPatterns match textual markers that a previously observed
// failure was dealt with.
var resolutionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bfixed\b`),
	regexp.MustCompile(`(?i)\bresolved\b`),
	regexp.MustCompile(`(?i)\bpass(es|ed|ing)\b`),
	regexp.MustCompile(`(?i)\bno longer fail`),
}

// sourceExtensions whitelist implementation-artifact file types. Docs,
// configs, and data files are deliberately absent.
var sourceExtensions = map[string]bool{
	".go":    true,
	".py":    true,
	".js":    true,
	".jsx":   true,
	".ts":    true,
	".tsx":   true,
	".rs":    true,
	".java":  true,
	".kt":    true,
	".scala": true,
	".rb":    true,
	".php":   true,
	".c":     true,
	".cc":    true,
	".cpp":   true,
	".h":     true,
	".hpp":   true,
	".swift": true,
	".sh":    true,
}

// mutationTools are the file-mutation actions the verification check
// watches for.
var mutationTools = map[string]bool{
	"Write":        true,
	"Edit":         true,
	"MultiEdit":    true,
	"NotebookEdit": true,
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, re := range patterns {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
