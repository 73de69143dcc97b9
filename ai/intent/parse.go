package intent

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/scimatch/scimatch/ai/internal/strutil"
)

type intentWire struct {
	MessageType     string   `json:"messageType"`
	TechDomains     []string `json:"techDomains"`
	CooperationType string   `json:"cooperationType"`
	UserRole        string   `json:"userRole"`
	Requirements    []string `json:"requirements"`
	IsVague         bool     `json:"isVague"`
	Confidence      float64  `json:"confidence"`
	Entities        struct {
		ProfessorNames []string `json:"professorNames"`
	} `json:"entities"`
}

// parseIntent decodes model output into an Intent, tolerating markdown
// fences and surrounding prose.
func parseIntent(content string) (*Intent, error) {
	payload, err := strutil.ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}
	var wire intentWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, errors.Wrap(err, "decode intent payload")
	}
	return &Intent{
		MessageType:     wire.MessageType,
		TechDomains:     wire.TechDomains,
		CooperationType: wire.CooperationType,
		UserRole:        wire.UserRole,
		Requirements:    wire.Requirements,
		IsVague:         wire.IsVague,
		Confidence:      wire.Confidence,
		ProfessorNames:  wire.Entities.ProfessorNames,
	}, nil
}
