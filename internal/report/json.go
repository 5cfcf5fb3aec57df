package report

import (
	"fmt"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/driftcheck/engine/pkg/types"
)

// Evaluation bundles everything a presentation layer needs to render one run.
type Evaluation struct {
	SourceText           string                  `json:"source_text"`
	IntermediateLanguage string                  `json:"intermediate_language"`
	IdentityA            string                  `json:"identity_a"`
	IdentityB            string                  `json:"identity_b"`
	TranslationModel     string                  `json:"translation_model"`
	JudgeModel           string                  `json:"judge_model"`
	Pipeline             *types.PipelineResult   `json:"pipeline"`
	Report               *types.DivergenceReport `json:"report"`
}

// JSONReport is the versioned serialization envelope.
type JSONReport struct {
	Version    string      `json:"version"`
	Timestamp  string      `json:"timestamp"`
	Evaluation *Evaluation `json:"evaluation"`
}

// GenerateJSON serializes an evaluation as indented JSON. Per-label status
// and error kind are always present in the pipeline section, so a failed leg
// is never silently omitted.
func GenerateJSON(ev *Evaluation) ([]byte, error) {
	out, err := json.MarshalIndent(JSONReport{
		Version:    "1.0",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Evaluation: ev,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return out, nil
}
