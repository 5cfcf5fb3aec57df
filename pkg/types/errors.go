package types

import "fmt"

// ErrorKind classifies a failure so callers can decide on retries and
// reporting without string matching.
type ErrorKind string

const (
	// ErrKindTransport: network-level failure before an HTTP status was received. Retryable.
	ErrKindTransport ErrorKind = "transport"
	// ErrKindService: non-2xx status from the completion service.
	// 4xx is a caller/config error and non-retryable; 5xx is transient.
	ErrKindService ErrorKind = "service"
	// ErrKindMalformedResponse: the response body lacked the expected text field. Non-retryable.
	ErrKindMalformedResponse ErrorKind = "malformed_response"
	// ErrKindTimeout: the per-call deadline expired. Retryable with bounded attempts.
	ErrKindTimeout ErrorKind = "timeout"
	// ErrKindAnalyzerParse: the judge response was not in the expected shape. Non-retryable.
	ErrKindAnalyzerParse ErrorKind = "analyzer_parse"
)

// ErrorInfo is the serializable error record attached to a failed job.
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Status  int       `json:"status,omitempty"`
	Message string    `json:"message"`
}

func (e *ErrorInfo) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether a single bounded retry is permitted for this error.
func (e *ErrorInfo) Retryable() bool {
	switch e.Kind {
	case ErrKindTransport, ErrKindTimeout:
		return true
	case ErrKindService:
		return e.Status >= 500
	default:
		return false
	}
}
