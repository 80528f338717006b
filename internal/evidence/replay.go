package evidence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// ReplaySummary holds counts for a replayed session.
type ReplaySummary struct {
	Total          int    `json:"total"`
	Declarations   int    `json:"declarations"`
	AllowCount     int    `json:"allow_count"`
	DenyCount      int    `json:"deny_count"`
	AskCount       int    `json:"ask_count"`
	AuditBlocks    int    `json:"audit_blocks"`
	FirstTimestamp string `json:"first_timestamp"`
	LastTimestamp  string `json:"last_timestamp"`
}

// ReplayResult holds filtered entries and summary for a session replay.
type ReplayResult struct {
	SessionID string        `json:"session_id"`
	Entries   []Entry       `json:"entries"`
	Summary   ReplaySummary `json:"summary"`
}

// Replay reads the evidence log and returns entries for the given
// session. An empty sessionID matches every entry.
func Replay(path, sessionID string) (*ReplayResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open evidence log: %w", err)
	}
	defer f.Close()

	result := &ReplayResult{SessionID: sessionID}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue // skip malformed lines
		}
		if sessionID != "" && entry.SessionID != sessionID {
			continue
		}

		result.Entries = append(result.Entries, entry)
		updateSummary(&result.Summary, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read evidence log: %w", err)
	}

	return result, nil
}

func updateSummary(s *ReplaySummary, entry Entry) {
	s.Total++

	switch entry.Kind {
	case KindDeclaration:
		s.Declarations++
	case KindDecision:
		switch entry.Decision {
		case "allow":
			s.AllowCount++
		case "deny":
			s.DenyCount++
		case "ask":
			s.AskCount++
		}
	case KindAudit:
		if entry.Decision == "block" {
			s.AuditBlocks++
		}
	}

	if s.FirstTimestamp == "" {
		s.FirstTimestamp = entry.Timestamp
	}
	s.LastTimestamp = entry.Timestamp
}
