package annotate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"launchscanner/internal/domain"
	"launchscanner/internal/ports"
)

const metadataSystemPrompt = "You are a helpful assistant that analyzes headlines and " +
	"extracts specific metadata in JSON format."

const metadataPromptTemplate = `Analyze the following headline: %q

Extract the following information:

1. Benefit Keywords: List any words or phrases that emphasize results or advantages (e.g., "faster," "better," "more efficient," "save time," "increase revenue"). Return as a JSON array of strings. If none, return an empty array.

2. Action Verbs: List any verbs focusing on what the user can do (e.g., "Simplify," "Automate," "Scale," "Connect"). Return as a JSON array of strings. If none, return an empty array.

3. Phrase Type: Is this a question or a statement? Return either "question" or "statement".

4. Focus: Does the headline highlight what the product does (features) or what the user gets (benefits)? Return either "features" or "benefit".

5. Uses Stats: Does the headline include numerical data to back up claims? Return true or false.

Format your response as a JSON object with the following structure:
{
    "benefitKeywords": ["keyword1", "keyword2", ...],
    "actionVerbs": ["verb1", "verb2", ...],
    "phraseType": "question" or "statement",
    "focus": "features" or "benefit",
    "usesStats": true or false
}

Return ONLY the JSON object, nothing else.`

var (
	fenceOpenExpr  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceCloseExpr = regexp.MustCompile("\\s*```$")
)

// MetadataExtractor annotates a launch with the five-field headline metadata
// bundle via a chat-completion call.
type MetadataExtractor struct {
	chat  ports.ChatClient
	pause time.Duration
}

var _ ports.Annotator = (*MetadataExtractor)(nil)

// NewMetadataExtractor wires the shared chat client.
func NewMetadataExtractor(chat ports.ChatClient, pause time.Duration) *MetadataExtractor {
	return &MetadataExtractor{chat: chat, pause: pause}
}

// Name identifies the annotator inside the registry.
func (e *MetadataExtractor) Name() string {
	return "metadata"
}

// Needs checks the three scalar fields; a merged bundle always sets all
// three, while the two arrays can be legitimately empty.
func (e *MetadataExtractor) Needs(l domain.Launch) bool {
	return l.PhraseType == "" || l.Focus == "" || l.UsesStats == nil
}

// Annotate extracts the metadata bundle. Records without a headline are
// skipped.
func (e *MetadataExtractor) Annotate(ctx context.Context, l domain.Launch) (ports.Annotation, error) {
	if l.Headline == "" {
		return nil, nil
	}

	content, err := e.chat.Complete(ctx, ports.ChatRequest{
		System:      metadataSystemPrompt,
		User:        fmt.Sprintf(metadataPromptTemplate, l.Headline),
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		var aerr *ports.AnnotatorError
		if errors.As(err, &aerr) {
			return nil, aerr
		}
		return nil, ports.NewAnnotatorError(ports.ReasonUnknown, err)
	}

	bundle, err := decodeMetadata(content)
	if err != nil {
		return nil, ports.NewAnnotatorError(ports.ReasonInvalidResponse, err)
	}

	return bundle, nil
}

// Fallback is the documented default bundle merged on any failure.
func (e *MetadataExtractor) Fallback(domain.Launch) ports.Annotation {
	return domain.DefaultMetadata()
}

// SaveEvery checkpoints after every processed record.
func (e *MetadataExtractor) SaveEvery() int {
	return 1
}

// Pause spaces out service calls to respect rate limits.
func (e *MetadataExtractor) Pause() time.Duration {
	return e.pause
}

// decodeMetadata strips Markdown fences and strictly validates that all five
// bundle fields are present; partially-shaped data never reaches the record.
func decodeMetadata(content string) (domain.Metadata, error) {
	body := strings.TrimSpace(content)
	body = fenceOpenExpr.ReplaceAllString(body, "")
	body = fenceCloseExpr.ReplaceAllString(body, "")

	var raw struct {
		BenefitKeywords *[]string `json:"benefitKeywords"`
		ActionVerbs     *[]string `json:"actionVerbs"`
		PhraseType      *string   `json:"phraseType"`
		Focus           *string   `json:"focus"`
		UsesStats       *bool     `json:"usesStats"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return domain.Metadata{}, fmt.Errorf("parse metadata response: %w", err)
	}

	if raw.BenefitKeywords == nil || raw.ActionVerbs == nil ||
		raw.PhraseType == nil || raw.Focus == nil || raw.UsesStats == nil {
		return domain.Metadata{}, fmt.Errorf("metadata response is missing required fields")
	}

	bundle := domain.Metadata{
		BenefitKeywords: *raw.BenefitKeywords,
		ActionVerbs:     *raw.ActionVerbs,
		PhraseType:      *raw.PhraseType,
		Focus:           *raw.Focus,
		UsesStats:       *raw.UsesStats,
	}
	if bundle.BenefitKeywords == nil {
		bundle.BenefitKeywords = []string{}
	}
	if bundle.ActionVerbs == nil {
		bundle.ActionVerbs = []string{}
	}

	return bundle, nil
}
