package evidence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult holds the outcome of a hash chain verification.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Lines     int    `json:"lines"`
	Error     string `json:"error,omitempty"`
	ErrorLine int    `json:"error_line,omitempty"`
}

// Verify reads a JSONL evidence log and validates the hash chain.
// Returns Valid=true if the chain is intact, or details about the first
// broken link.
func Verify(path string) VerifyResult {
	f, err := os.Open(path)
	if err != nil {
		return VerifyResult{Error: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	want := GenesisHash

	for scanner.Scan() {
		lineNum++

		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return VerifyResult{
				Error:     fmt.Sprintf("parse error: %v", err),
				ErrorLine: lineNum,
			}
		}
		if entry.PrevHash != want {
			return VerifyResult{
				Error:     fmt.Sprintf("hash mismatch: expected %s, got %s", want, entry.PrevHash),
				ErrorLine: lineNum,
			}
		}
		want = HashLine(scanner.Bytes())
	}

	if err := scanner.Err(); err != nil {
		return VerifyResult{Error: fmt.Sprintf("scan: %v", err)}
	}

	return VerifyResult{Valid: true, Lines: lineNum}
}
