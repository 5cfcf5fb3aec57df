package types

import "time"

// JobLabel identifies which conditioning path produced a translation job.
type JobLabel string

const (
	LabelIdentityA JobLabel = "identity_a"
	LabelIdentityB JobLabel = "identity_b"
	LabelBaseline  JobLabel = "baseline"
)

// JobOrder is the fixed ordering of labels in a PipelineResult, regardless
// of which job finished first.
var JobOrder = [3]JobLabel{LabelIdentityA, LabelIdentityB, LabelBaseline}

// JobStatus is the terminal state of a round-trip translation job.
type JobStatus string

const (
	// StatusSuccess: both legs completed.
	StatusSuccess JobStatus = "success"
	// StatusPartialFailure: forward leg succeeded, back leg failed.
	// The intermediate text is retained for diagnostics.
	StatusPartialFailure JobStatus = "partial_failure"
	// StatusFailure: forward leg failed; no back leg was attempted.
	StatusFailure JobStatus = "failure"
)

// TranslationRequest describes one round-trip translation job.
// Identity is empty for the baseline path. Immutable once constructed.
type TranslationRequest struct {
	SourceText           string `json:"source_text"`
	IntermediateLanguage string `json:"intermediate_language"`
	Identity             string `json:"identity,omitempty"`
}

// TranslationJobResult is the outcome of one round-trip translation job.
// It is owned by the job that produced it until handed to the analyzer and
// must not be mutated after completion.
type TranslationJobResult struct {
	Label            JobLabel   `json:"label"`
	IntermediateText string     `json:"intermediate_text,omitempty"`
	FinalText        string     `json:"final_text,omitempty"`
	Status           JobStatus  `json:"status"`
	Err              *ErrorInfo `json:"error,omitempty"`
}

// PipelineResult holds the joined outcome of the three translation jobs.
// Results always contains exactly one entry per label in JobOrder.
type PipelineResult struct {
	Results     []TranslationJobResult `json:"results"`
	StartedAt   time.Time              `json:"started_at"`
	CompletedAt time.Time              `json:"completed_at"`
}

// ByLabel returns the job result for the given label, or nil if absent.
func (p *PipelineResult) ByLabel(label JobLabel) *TranslationJobResult {
	for i := range p.Results {
		if p.Results[i].Label == label {
			return &p.Results[i]
		}
	}
	return nil
}

// SucceededCount returns the number of jobs whose final text is available.
func (p *PipelineResult) SucceededCount() int {
	n := 0
	for i := range p.Results {
		if p.Results[i].Status == StatusSuccess {
			n++
		}
	}
	return n
}
