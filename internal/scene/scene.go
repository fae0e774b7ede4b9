// Package scene models the scene document a production hands to the
// validator. Required fields are detected by key presence, not zero values,
// so every required field is decoded through a pointer or raw message.
package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// Scene is a single scene description. PreviousScenes stay raw: the
// continuity analysis embeds them verbatim and nothing else reads them.
type Scene struct {
	Name           *string           `json:"sceneName"`
	Number         json.RawMessage   `json:"sceneNumber,omitempty"`
	Location       *string           `json:"location"`
	TimeOfDay      *string           `json:"timeOfDay"`
	Characters     json.RawMessage   `json:"characters,omitempty"`
	Props          json.RawMessage   `json:"props,omitempty"`
	Technical      *Technical        `json:"technical,omitempty"`
	Composition    *Composition      `json:"composition,omitempty"`
	PreviousScenes []json.RawMessage `json:"previousScenes,omitempty"`

	raw []byte
}

// Technical carries the scene's technical specifications. Absent keys are
// skipped during validation, so everything is a pointer.
type Technical struct {
	Resolution      *string  `json:"resolution,omitempty"`
	FrameRate       *float64 `json:"frameRate,omitempty"`
	ColorSpace      *string  `json:"colorSpace,omitempty"`
	AudioChannels   *float64 `json:"audioChannels,omitempty"`
	AudioSampleRate *float64 `json:"audioSampleRate,omitempty"`
}

// Composition carries the scene's compositional self-declarations.
type Composition struct {
	RuleOfThirds *bool `json:"ruleOfThirds,omitempty"`
	Headroom     *bool `json:"headroom,omitempty"`
	LeadingSpace *bool `json:"leadingSpace,omitempty"`
}

// RequiredFields lists the scene document keys that must be present, in
// report order.
var RequiredFields = []string{
	"sceneName", "sceneNumber", "location", "timeOfDay", "characters", "props",
}

// Parse decodes a scene document and retains the source bytes for later
// verbatim embedding.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scene document: %w", err)
	}
	s.raw = data
	return &s, nil
}

// Load reads and decodes a scene document from a local file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	return Parse(data)
}

// MissingFields returns the required keys absent from the document, in
// report order. Empty means the document is structurally complete.
func (s *Scene) MissingFields() []string {
	var missing []string
	if s.Name == nil {
		missing = append(missing, "sceneName")
	}
	if s.Number == nil {
		missing = append(missing, "sceneNumber")
	}
	if s.Location == nil {
		missing = append(missing, "location")
	}
	if s.TimeOfDay == nil {
		missing = append(missing, "timeOfDay")
	}
	if s.Characters == nil {
		missing = append(missing, "characters")
	}
	if s.Props == nil {
		missing = append(missing, "props")
	}
	return missing
}

// Raw returns the original document bytes, falling back to a re-marshal for
// scenes constructed in code.
func (s *Scene) Raw() []byte {
	if s.raw != nil {
		return s.raw
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return data
}

// DisplayName returns the scene name or a placeholder for unnamed scenes.
func (s *Scene) DisplayName() string {
	if s.Name != nil && *s.Name != "" {
		return *s.Name
	}
	return "(unnamed scene)"
}
