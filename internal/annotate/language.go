package annotate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"launchscanner/internal/domain"
	"launchscanner/internal/ports"
)

const languageSystemPrompt = "You are a language detection assistant. Respond with only the " +
	"ISO 639-1 language code (e.g., 'en' for English, 'fr' for French, 'es' for Spanish, etc.). " +
	"If you cannot determine the language, respond with 'unknown'."

var codeExpr = regexp.MustCompile(`[^a-z-]`)

// languageNames maps ISO 639-1 codes to display names. Codes outside the
// table pass through as-is.
var languageNames = map[string]string{
	"en": "English", "fr": "French", "es": "Spanish", "de": "German",
	"it": "Italian", "pt": "Portuguese", "nl": "Dutch", "ru": "Russian",
	"zh": "Chinese", "ja": "Japanese", "ko": "Korean", "ar": "Arabic",
	"hi": "Hindi", "vi": "Vietnamese", "th": "Thai", "tr": "Turkish",
	"pl": "Polish", "sv": "Swedish", "no": "Norwegian", "fi": "Finnish",
	"da": "Danish", "cs": "Czech", "hu": "Hungarian", "el": "Greek",
	"he": "Hebrew", "id": "Indonesian", "ms": "Malay", "ro": "Romanian",
	"sk": "Slovak", "uk": "Ukrainian", "bg": "Bulgarian", "hr": "Croatian",
	"lt": "Lithuanian", "lv": "Latvian", "et": "Estonian", "sl": "Slovenian",
	"sr": "Serbian", "mk": "Macedonian", "sq": "Albanian", "bs": "Bosnian",
	"mt": "Maltese", "ga": "Irish", "cy": "Welsh", "gl": "Galician",
	"eu": "Basque", "ca": "Catalan",
	"unknown": "Unknown",
}

// LanguageDetector annotates a launch with the language of its headline via
// a chat-completion call.
type LanguageDetector struct {
	chat  ports.ChatClient
	pause time.Duration
}

var _ ports.Annotator = (*LanguageDetector)(nil)

// NewLanguageDetector wires the shared chat client.
func NewLanguageDetector(chat ports.ChatClient, pause time.Duration) *LanguageDetector {
	return &LanguageDetector{chat: chat, pause: pause}
}

// Name identifies the annotator inside the registry.
func (d *LanguageDetector) Name() string {
	return "language"
}

// Needs reports whether the record still lacks a language field.
func (d *LanguageDetector) Needs(l domain.Launch) bool {
	return l.Language == ""
}

// Annotate detects the headline language. Records without a headline get the
// sentinel "Unknown" without touching the service.
func (d *LanguageDetector) Annotate(ctx context.Context, l domain.Launch) (ports.Annotation, error) {
	if l.Headline == "" {
		return domain.Language("Unknown"), nil
	}

	content, err := d.chat.Complete(ctx, ports.ChatRequest{
		System:      languageSystemPrompt,
		User:        fmt.Sprintf("Detect the language of this text: %q", l.Headline),
		MaxTokens:   10,
		Temperature: 0.3,
	})
	if err != nil {
		var aerr *ports.AnnotatorError
		if errors.As(err, &aerr) {
			return nil, aerr
		}
		return nil, ports.NewAnnotatorError(ports.ReasonUnknown, err)
	}

	return domain.Language(normalizeLanguage(content)), nil
}

// Fallback yields the sentinel used whenever the service failed.
func (d *LanguageDetector) Fallback(domain.Launch) ports.Annotation {
	return domain.Language("unknown")
}

// SaveEvery checkpoints every 5th successfully processed record.
func (d *LanguageDetector) SaveEvery() int {
	return 5
}

// Pause spaces out service calls to respect rate limits.
func (d *LanguageDetector) Pause() time.Duration {
	return d.pause
}

func normalizeLanguage(raw string) string {
	code := strings.ToLower(strings.TrimSpace(raw))
	code = codeExpr.ReplaceAllString(code, "")
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
