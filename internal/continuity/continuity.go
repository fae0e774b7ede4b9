// Package continuity delegates cross-scene continuity analysis to a
// text-generation collaborator. The collaborator is asked for a structured
// JSON verdict; everything here is prompt construction and response parsing,
// the model call itself sits behind the Analyzer interface.
package continuity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"scenevalidator/internal/scene"
)

// Findings is the structured verdict of a continuity analysis.
type Findings struct {
	Errors   []string `json:"continuityErrors"`
	Warnings []string `json:"continuityWarnings"`
}

// Analyzer is the capability the validator needs from a collaborator:
// compare the current scene against its predecessors and report continuity
// findings. Implementations may call out to external services.
type Analyzer interface {
	AnalyzeContinuity(ctx context.Context, current *scene.Scene, previous []json.RawMessage) (Findings, error)
}

// BuildPrompt renders the analysis request. The current scene and the
// previous-scene sequence are embedded verbatim so the collaborator sees
// every field, including ones the validator does not model.
func BuildPrompt(current *scene.Scene, previous []json.RawMessage) string {
	currentDoc := indentJSON(current.Raw())

	prevBytes := []byte("[]")
	if len(previous) > 0 {
		if data, err := json.MarshalIndent(previous, "", "  "); err == nil {
			prevBytes = data
		}
	}

	var b strings.Builder
	b.WriteString("Analyze continuity between this scene and previous scenes.\n\n")
	b.WriteString("Current scene:\n")
	b.Write(currentDoc)
	b.WriteString("\n\nPrevious scenes:\n")
	b.Write(prevBytes)
	b.WriteString("\n\n")
	b.WriteString("Check for continuity errors in props, wardrobe, lighting, and time of day.\n")
	b.WriteString("Return a JSON object with these fields:\n")
	b.WriteString("- continuityErrors: array of specific continuity errors found\n")
	b.WriteString("- continuityWarnings: array of potential continuity issues that should be reviewed\n")
	return b.String()
}

func indentJSON(data []byte) []byte {
	var dst bytes.Buffer
	if err := json.Indent(&dst, data, "", "  "); err != nil {
		return data
	}
	return dst.Bytes()
}

// ParseFindings extracts the structured verdict from a collaborator
// response. Responses wrapped in markdown code fences or surrounded by prose
// are tolerated. A response carrying neither findings field is rejected.
func ParseFindings(response string) (Findings, error) {
	payload := extractJSON(response)
	if payload == "" {
		return Findings{}, errors.New("no JSON object in continuity response")
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &keys); err != nil {
		return Findings{}, fmt.Errorf("decode continuity response: %w", err)
	}
	if _, ok := keys["continuityErrors"]; !ok {
		if _, ok := keys["continuityWarnings"]; !ok {
			return Findings{}, errors.New("continuity response missing continuityErrors and continuityWarnings")
		}
	}

	var f Findings
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return Findings{}, fmt.Errorf("decode continuity response: %w", err)
	}
	return f, nil
}

// extractJSON finds the first balanced JSON object in a response, after
// stripping any markdown code fence wrapping.
func extractJSON(response string) string {
	cleaned := stripCodeFences(response)

	start := strings.Index(cleaned, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				candidate := cleaned[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate
				}
				return ""
			}
		}
	}
	return ""
}

// stripCodeFences removes ```json / ``` wrapping, if present.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	firstNewline := strings.Index(trimmed, "\n")
	if firstNewline == -1 {
		return trimmed
	}
	body := trimmed[firstNewline+1:]
	if end := strings.LastIndex(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
