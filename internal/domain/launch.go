package domain

// Launch is a core entity describing one leaderboard entry and the
// annotations accumulated by the enrichment pipeline. Annotation fields are
// omitted from JSON until an annotator has merged them, which is what makes
// the presence gate an existence check on the stored document.
type Launch struct {
	Rank     int    `json:"rank,omitempty"`
	Startup  string `json:"startup"`
	URL      string `json:"url,omitempty"`
	Revenue  int    `json:"revenue"`
	Maker    string `json:"maker,omitempty"`
	Headline string `json:"headline,omitempty"`

	Language        string             `json:"language,omitempty"`
	BenefitKeywords []string           `json:"benefitKeywords,omitempty"`
	ActionVerbs     []string           `json:"actionVerbs,omitempty"`
	PhraseType      string             `json:"phraseType,omitempty"`
	Focus           string             `json:"focus,omitempty"`
	UsesStats       *bool              `json:"usesStats,omitempty"`
	Sentiment       *SentimentAnalysis `json:"sentiment_analysis,omitempty"`
}

// Site returns the address the headline fetcher should visit. The canonical
// field is URL (the startup website); Maker is the attribution profile and is
// used only for legacy records that never carried a URL.
func (l Launch) Site() string {
	if l.URL != "" {
		return l.URL
	}
	return l.Maker
}

// Headline annotation produced by the website fetcher.
type Headline string

// ApplyTo merges the headline into the launch record.
func (h Headline) ApplyTo(l *Launch) {
	l.Headline = string(h)
}

// Language annotation: a human-readable language name, or a raw ISO 639-1
// code when the detector could not map it.
type Language string

// ApplyTo merges the language into the launch record.
func (v Language) ApplyTo(l *Launch) {
	l.Language = string(v)
}

// Metadata is the fixed-shape bundle extracted from a headline.
type Metadata struct {
	BenefitKeywords []string `json:"benefitKeywords"`
	ActionVerbs     []string `json:"actionVerbs"`
	PhraseType      string   `json:"phraseType"`
	Focus           string   `json:"focus"`
	UsesStats       bool     `json:"usesStats"`
}

// ApplyTo merges the metadata bundle into the launch record.
func (m Metadata) ApplyTo(l *Launch) {
	l.BenefitKeywords = m.BenefitKeywords
	l.ActionVerbs = m.ActionVerbs
	l.PhraseType = m.PhraseType
	l.Focus = m.Focus
	uses := m.UsesStats
	l.UsesStats = &uses
}

// DefaultMetadata is the documented fallback merged when the extraction
// service fails or returns an unparsable body.
func DefaultMetadata() Metadata {
	return Metadata{
		BenefitKeywords: []string{},
		ActionVerbs:     []string{},
		PhraseType:      "statement",
		Focus:           "features",
		UsesStats:       false,
	}
}

// SentimentAnalysis holds the four polarity scores and the derived class.
type SentimentAnalysis struct {
	Sentiment string  `json:"sentiment"`
	Negative  float64 `json:"negative"`
	Neutral   float64 `json:"neutral"`
	Positive  float64 `json:"positive"`
	Compound  float64 `json:"compound"`
}

// ApplyTo merges the sentiment bundle into the launch record.
func (s SentimentAnalysis) ApplyTo(l *Launch) {
	copied := s
	l.Sentiment = &copied
}
