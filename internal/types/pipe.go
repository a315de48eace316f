package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PipeMarker is the literal stdout prefix a producer emits, one per line,
// to feed discrete items to a downstream | step.
const PipeMarker = "__PIPE__"

// PipeItemKind discriminates the shapes a structured pipe item can take.
type PipeItemKind string

const (
	// PipeItemFile references a file on disk, with an optional caption.
	PipeItemFile PipeItemKind = "file"

	// PipeItemText carries an inline text payload.
	PipeItemText PipeItemKind = "text"
)

// PipeItem is one discrete value passed through a structured pipe.
type PipeItem struct {
	Type    PipeItemKind `json:"type"`
	Path    string       `json:"path,omitempty"`
	Caption string       `json:"caption,omitempty"`
	Content string       `json:"content,omitempty"`
}

// String returns a short description of the item for progress output.
func (p PipeItem) String() string {
	if p.Type == PipeItemFile {
		return fmt.Sprintf("file:%s", p.Path)
	}
	return fmt.Sprintf("text:%d bytes", len(p.Content))
}

// ParsePipeItems scans output line by line for PipeMarker lines and decodes
// their JSON payloads. Malformed payloads are dropped; the remaining items
// are still returned. The second return value is false when the output
// contained no marker lines at all, meaning the producer opted for a plain
// pipe instead.
func ParsePipeItems(output string) ([]PipeItem, bool) {
	var items []PipeItem
	sawMarker := false
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, PipeMarker) {
			continue
		}
		sawMarker = true
		payload := strings.TrimPrefix(line, PipeMarker)
		var item PipeItem
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			continue
		}
		if item.Type != PipeItemFile {
			// Unknown shapes degrade to text so a newer producer does
			// not break an older consumer.
			item.Type = PipeItemText
		}
		items = append(items, item)
	}
	return items, sawMarker
}

// EncodePipeItem renders the stdout line a producer emits for one item.
func EncodePipeItem(item PipeItem) (string, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("encoding pipe item: %w", err)
	}
	return PipeMarker + string(data), nil
}
