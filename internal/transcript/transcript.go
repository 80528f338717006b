// Package transcript parses the host runtime's session transcript: an
// append-only JSONL file where each line is a message envelope. Assistant
// messages carry tool_use content blocks (the actions the agent took),
// user messages carry the matching tool_result blocks (what the tools
// returned). The parser preserves global ordering so later scans can
// reason about "after" relationships.
package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ToolCall is one tool invocation recovered from the transcript, with
// its captured output attached. Index is the call's position in global
// transcript order.
type ToolCall struct {
	ID     string
	Name   string
	Input  map[string]any
	Output string
	Index  int
}

// Transcript is the ordered action history of one session.
type Transcript struct {
	Calls []ToolCall
}

type envelope struct {
	Type    string  `json:"type"`
	Message message `json:"message"`
}

type message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     map[string]any  `json:"input,omitempty"`
	Text      string          `json:"text,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// ParseFile reads and parses a transcript JSONL file.
func ParseFile(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	tr := &Transcript{}
	byID := make(map[string]int) // tool_use id -> index into Calls

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env envelope
		if err := json.Unmarshal(line, &env); err != nil {
			continue // tolerate malformed lines
		}
		blocks := parseBlocks(env.Message.Content)
		for _, b := range blocks {
			switch b.Type {
			case "tool_use":
				byID[b.ID] = len(tr.Calls)
				tr.Calls = append(tr.Calls, ToolCall{
					ID:    b.ID,
					Name:  b.Name,
					Input: b.Input,
					Index: len(tr.Calls),
				})
			case "tool_result":
				if i, ok := byID[b.ToolUseID]; ok {
					tr.Calls[i].Output = blockText(b.Content)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	return tr, nil
}

// parseBlocks handles both shapes of message content: an array of typed
// blocks, or a bare string (which carries no tool activity).
func parseBlocks(raw json.RawMessage) []contentBlock {
	if len(raw) == 0 {
		return nil
	}
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil
	}
	return blocks
}

// blockText flattens a tool_result's content, which may be a plain
// string or an array of text blocks.
func blockText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// CallsNamed returns every call with the given tool name, in order.
func (t *Transcript) CallsNamed(name string) []ToolCall {
	var out []ToolCall
	for _, c := range t.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// LastNamed returns the last call with the given tool name, or nil.
func (t *Transcript) LastNamed(name string) *ToolCall {
	for i := len(t.Calls) - 1; i >= 0; i-- {
		if t.Calls[i].Name == name {
			return &t.Calls[i]
		}
	}
	return nil
}

// StringInput returns a string field from a call's input, or "".
func (c *ToolCall) StringInput(key string) string {
	if c.Input == nil {
		return ""
	}
	if v, ok := c.Input[key].(string); ok {
		return v
	}
	return ""
}
