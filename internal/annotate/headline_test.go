package annotate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchscanner/internal/domain"
)

func testFetchClient() *resty.Client {
	return resty.New().SetTimeout(2 * time.Second)
}

func TestExtractHeadlineOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"h1 wins",
			`<html><head><title>Acme Home</title></head><body><h1> Ship faster </h1></body></html>`,
			"Ship faster",
		},
		{
			"title when no h1",
			`<html><head><title>Acme Home</title></head><body></body></html>`,
			"Acme Home",
		},
		{
			"meta description when no h1 or title",
			`<html><head><meta name="description" content="Build in a weekend"></head></html>`,
			"Build in a weekend",
		},
		{
			"og title as last resort",
			`<html><head><meta property="og:title" content="Acme"></head></html>`,
			"Acme",
		},
		{
			"nothing found",
			`<html><body><p>hello</p></body></html>`,
			"",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extractHeadline([]byte(tt.html)))
		})
	}
}

func TestHeadlineAnnotateFromMarkup(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Ship 10x faster with AI</h1></body></html>`))
	}))
	defer server.Close()

	chat := &fakeChat{response: "should not be used"}
	f := NewHeadlineFetcher(testFetchClient(), chat, 0)

	ann, err := f.Annotate(context.Background(), domain.Launch{Startup: "Acme", URL: server.URL})
	require.NoError(t, err)

	var launch domain.Launch
	ann.ApplyTo(&launch)
	assert.Equal(t, "Ship 10x faster with AI", launch.Headline)
	assert.Equal(t, 0, chat.calls, "markup extraction must not reach the chat service")
}

func TestHeadlineChatFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div>js app shell</div></body></html>`))
	}))
	defer server.Close()

	chat := &fakeChat{response: `"Ship faster today"`}
	f := NewHeadlineFetcher(testFetchClient(), chat, 0)

	ann, err := f.Annotate(context.Background(), domain.Launch{Startup: "Acme", URL: server.URL})
	require.NoError(t, err)

	var launch domain.Launch
	ann.ApplyTo(&launch)
	assert.Equal(t, "Ship faster today", launch.Headline)
	assert.Equal(t, 1, chat.calls)
}

func TestHeadlineApologyReplaced(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	chat := &fakeChat{response: "Sorry, I cannot find a headline in this content."}
	f := NewHeadlineFetcher(testFetchClient(), chat, 0)

	ann, err := f.Annotate(context.Background(), domain.Launch{Startup: "Acme", URL: server.URL})
	require.NoError(t, err)

	var launch domain.Launch
	ann.ApplyTo(&launch)
	assert.Equal(t, "Acme: Innovative Solutions for Modern Businesses", launch.Headline)
}

func TestHeadlinePrefersURLOverMaker(t *testing.T) {
	t.Parallel()

	launch := domain.Launch{
		Startup: "Acme",
		URL:     "https://acme.dev",
		Maker:   "https://x.com/acme",
	}
	assert.Equal(t, "https://acme.dev", launch.Site())

	legacy := domain.Launch{Startup: "Acme", Maker: "https://x.com/acme"}
	assert.Equal(t, "https://x.com/acme", legacy.Site())
}

func TestHeadlineNoSiteSkips(t *testing.T) {
	t.Parallel()

	f := NewHeadlineFetcher(testFetchClient(), &fakeChat{}, 0)
	ann, err := f.Annotate(context.Background(), domain.Launch{Startup: "Acme"})
	require.NoError(t, err)
	assert.Nil(t, ann)
}

func TestHeadlineNeeds(t *testing.T) {
	t.Parallel()

	f := NewHeadlineFetcher(testFetchClient(), &fakeChat{}, 0)
	assert.True(t, f.Needs(domain.Launch{Startup: "Acme", URL: "https://acme.dev"}))
	assert.False(t, f.Needs(domain.Launch{Startup: "Acme", Headline: "Ship faster"}))
}
