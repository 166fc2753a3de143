package annotate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchscanner/internal/domain"
	"launchscanner/internal/ports"
)

func TestLanguageNeeds(t *testing.T) {
	t.Parallel()

	d := NewLanguageDetector(&fakeChat{}, 0)
	assert.True(t, d.Needs(domain.Launch{Startup: "Acme"}))
	assert.False(t, d.Needs(domain.Launch{Startup: "Acme", Language: "English"}))
}

func TestLanguageEmptyHeadlineSkipsService(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{response: "en"}
	d := NewLanguageDetector(chat, 0)

	ann, err := d.Annotate(context.Background(), domain.Launch{Startup: "Acme"})
	require.NoError(t, err)

	var launch domain.Launch
	ann.ApplyTo(&launch)
	assert.Equal(t, "Unknown", launch.Language)
	assert.Equal(t, 0, chat.calls, "empty headline must not reach the service")
}

func TestLanguageNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"plain code", "en", "English"},
		{"uppercase with punctuation", "EN.", "English"},
		{"whitespace", " fr \n", "French"},
		{"unknown sentinel", "unknown", "Unknown"},
		{"unmapped code passes through", "tl", "tl"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chat := &fakeChat{response: tt.response}
			d := NewLanguageDetector(chat, 0)

			ann, err := d.Annotate(context.Background(),
				domain.Launch{Startup: "Acme", Headline: "Ship 10x faster with AI"})
			require.NoError(t, err)

			var launch domain.Launch
			ann.ApplyTo(&launch)
			assert.Equal(t, tt.want, launch.Language)
			assert.Equal(t, 1, chat.calls)
		})
	}
}

func TestLanguagePromptControls(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{response: "en"}
	d := NewLanguageDetector(chat, 0)

	_, err := d.Annotate(context.Background(),
		domain.Launch{Startup: "Acme", Headline: "Ship 10x faster with AI"})
	require.NoError(t, err)

	assert.Equal(t, 10, chat.lastReq.MaxTokens)
	assert.InDelta(t, 0.3, chat.lastReq.Temperature, 1e-9)
	assert.Contains(t, chat.lastReq.User, "Ship 10x faster with AI")
}

func TestLanguageServiceErrorPropagatesTyped(t *testing.T) {
	t.Parallel()

	chat := &fakeChat{err: ports.NewAnnotatorError(ports.ReasonRateLimited, assert.AnError)}
	d := NewLanguageDetector(chat, 0)

	_, err := d.Annotate(context.Background(),
		domain.Launch{Startup: "Acme", Headline: "Ship 10x faster with AI"})
	require.Error(t, err)

	var aerr *ports.AnnotatorError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, ports.ReasonRateLimited, aerr.Reason)
}

func TestLanguageFallback(t *testing.T) {
	t.Parallel()

	d := NewLanguageDetector(&fakeChat{}, 0)
	var launch domain.Launch
	d.Fallback(domain.Launch{}).ApplyTo(&launch)
	assert.Equal(t, "unknown", launch.Language)
}

func TestLanguageCadence(t *testing.T) {
	t.Parallel()

	d := NewLanguageDetector(&fakeChat{}, 0)
	assert.Equal(t, 5, d.SaveEvery())
}
