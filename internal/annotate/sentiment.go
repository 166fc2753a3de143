package annotate

import (
	"context"
	"time"

	"github.com/jonreiter/govader"

	"launchscanner/internal/domain"
	"launchscanner/internal/ports"
)

// SentimentScorer annotates a launch with VADER polarity scores. It runs
// entirely in-process against the bundled lexicon; there is no failure path
// beyond the empty-input skip.
type SentimentScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ ports.Annotator = (*SentimentScorer)(nil)

// NewSentimentScorer loads the lexicon once and reuses the analyzer across
// records.
func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Name identifies the annotator inside the registry.
func (s *SentimentScorer) Name() string {
	return "sentiment"
}

// Needs reports whether the record still lacks a sentiment bundle.
func (s *SentimentScorer) Needs(l domain.Launch) bool {
	return l.Sentiment == nil
}

// Annotate scores the headline. Records without a headline are skipped.
func (s *SentimentScorer) Annotate(_ context.Context, l domain.Launch) (ports.Annotation, error) {
	if l.Headline == "" {
		return nil, nil
	}

	scores := s.analyzer.PolarityScores(l.Headline)
	return domain.SentimentAnalysis{
		Sentiment: classify(scores.Compound),
		Negative:  scores.Negative,
		Neutral:   scores.Neutral,
		Positive:  scores.Positive,
		Compound:  scores.Compound,
	}, nil
}

// Fallback is nil: scoring is deterministic and never fails.
func (s *SentimentScorer) Fallback(domain.Launch) ports.Annotation {
	return nil
}

// SaveEvery checkpoints after every processed record.
func (s *SentimentScorer) SaveEvery() int {
	return 1
}

// Pause is zero: no external service to pace against.
func (s *SentimentScorer) Pause() time.Duration {
	return 0
}

// classify maps a compound score to its class; the 0.05 boundaries are
// inclusive on both sides.
func classify(compound float64) string {
	switch {
	case compound >= 0.05:
		return "Positive"
	case compound <= -0.05:
		return "Negative"
	default:
		return "Neutral"
	}
}
