package ports

import (
	"context"
	"fmt"
	"time"

	"launchscanner/internal/domain"
)

// LaunchStore persists the full record sequence; every Save rewrites the
// backing document wholesale.
type LaunchStore interface {
	Load() ([]domain.Launch, error)
	Save(launches []domain.Launch) error
}

// LaunchRepository mirrors annotated launches into relational storage for
// downstream querying.
type LaunchRepository interface {
	UpsertLaunches(ctx context.Context, launches []domain.Launch) error
}

// Annotation is a structured bundle an annotator produced for one record.
type Annotation interface {
	ApplyTo(l *domain.Launch)
}

// Annotator enriches a single launch record. Annotate returns (nil, nil)
// when the record carries no usable input and should simply be skipped.
type Annotator interface {
	Name() string

	// Needs reports whether the record still lacks this annotator's fields.
	// Existence check only; already-annotated records are never re-sent.
	Needs(l domain.Launch) bool

	Annotate(ctx context.Context, l domain.Launch) (Annotation, error)

	// Fallback is merged by the driver when Annotate fails. May be nil, in
	// which case the record is left unannotated and the loop continues.
	Fallback(l domain.Launch) Annotation

	// SaveEvery is the checkpoint cadence in successfully processed records.
	SaveEvery() int

	// Pause is the delay between external-service calls; zero for local
	// annotators.
	Pause() time.Duration
}

// ChatClient sends one completion request to an LLM API and returns the
// assistant message content.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// ChatRequest carries the prompt and determinism controls for one call.
type ChatRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// FailureReason classifies why an annotation attempt failed so the driver
// can choose between default substitution and leaving the record untouched.
type FailureReason string

const (
	ReasonTimeout         FailureReason = "timeout"
	ReasonInvalidResponse FailureReason = "invalid_response"
	ReasonRateLimited     FailureReason = "rate_limited"
	ReasonUnknown         FailureReason = "unknown"
)

// AnnotatorError is the typed failure returned by annotators and the chat
// client. It never escapes the pipeline driver.
type AnnotatorError struct {
	Reason FailureReason
	Err    error
}

func (e *AnnotatorError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *AnnotatorError) Unwrap() error {
	return e.Err
}

// NewAnnotatorError wraps err with a failure reason.
func NewAnnotatorError(reason FailureReason, err error) *AnnotatorError {
	return &AnnotatorError{Reason: reason, Err: err}
}
