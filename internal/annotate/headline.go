package annotate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"launchscanner/internal/domain"
	"launchscanner/internal/ports"
)

const (
	headlineSystemPrompt = "You are a helpful assistant that extracts the main headline or tagline " +
		"from a website's HTML content. Return ONLY the headline text, nothing else. If you cannot " +
		"find a headline, return a short, concise headline based on the company name and website " +
		"content. Never return an error message or apology."

	// LLM input is truncated to stay inside the completion token budget.
	maxHTMLBytes = 15000

	minHeadlineLen = 5
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
}

var apologyMarkers = []string{
	"sorry", "cannot", "could not", "unable to",
	"doesn't contain", "does not contain", "no headline", "no tagline",
}

// HeadlineFetcher annotates a launch with the headline scraped from its
// website, falling back to a chat-completion extraction when the markup
// carries no obvious candidate.
type HeadlineFetcher struct {
	client *resty.Client
	chat   ports.ChatClient
	pause  time.Duration
}

var _ ports.Annotator = (*HeadlineFetcher)(nil)

// NewHeadlineFetcher wires the fetch client; a nil client gets the default
// bounded-retry configuration.
func NewHeadlineFetcher(client *resty.Client, chat ports.ChatClient, pause time.Duration) *HeadlineFetcher {
	if client == nil {
		client = NewFetchClient()
	}
	return &HeadlineFetcher{client: client, chat: chat, pause: pause}
}

// NewFetchClient builds the resty client used for website fetches: three
// retries with increasing backoff, matching the rate the sites tolerate.
func NewFetchClient() *resty.Client {
	return resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(8 * time.Second)
}

// Name identifies the annotator inside the registry.
func (f *HeadlineFetcher) Name() string {
	return "headline"
}

// Needs reports whether the record still lacks a headline.
func (f *HeadlineFetcher) Needs(l domain.Launch) bool {
	return l.Headline == ""
}

// Annotate fetches the startup website and extracts its headline. Records
// with no site address are skipped.
func (f *HeadlineFetcher) Annotate(ctx context.Context, l domain.Launch) (ports.Annotation, error) {
	site := l.Site()
	if site == "" {
		return nil, nil
	}

	html, err := f.fetch(ctx, site)
	if err != nil {
		return nil, err
	}

	headline := extractHeadline(html)
	if len(headline) < minHeadlineLen && f.chat != nil {
		headline, err = f.extractWithChat(ctx, l.Startup, site, html)
		if err != nil {
			return nil, err
		}
	}
	if headline == "" {
		return nil, ports.NewAnnotatorError(ports.ReasonInvalidResponse,
			fmt.Errorf("no headline found on %s", site))
	}

	return domain.Headline(headline), nil
}

// Fallback is nil: a record whose site could not be read stays unannotated
// so a later run can retry it.
func (f *HeadlineFetcher) Fallback(domain.Launch) ports.Annotation {
	return nil
}

// SaveEvery checkpoints after every processed record.
func (f *HeadlineFetcher) SaveEvery() int {
	return 1
}

// Pause spaces out website fetches.
func (f *HeadlineFetcher) Pause() time.Duration {
	return f.pause
}

func (f *HeadlineFetcher) fetch(ctx context.Context, site string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgents[rand.Intn(len(userAgents))]).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		Get(site)
	if err != nil {
		reason := ports.ReasonUnknown
		if errors.Is(err, context.DeadlineExceeded) {
			reason = ports.ReasonTimeout
		}
		return nil, ports.NewAnnotatorError(reason, fmt.Errorf("fetch %s: %w", site, err))
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, ports.NewAnnotatorError(ports.ReasonRateLimited, fmt.Errorf("fetch %s: %s", site, resp.Status()))
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, ports.NewAnnotatorError(ports.ReasonUnknown, fmt.Errorf("fetch %s: %s", site, resp.Status()))
	}
	return resp.Body(), nil
}

// extractHeadline walks the candidates in fixed order: first h1, title tag,
// meta description, og:description, og:title.
func extractHeadline(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}

	if text := strings.TrimSpace(doc.Find("h1").First().Text()); text != "" {
		return text
	}
	if text := strings.TrimSpace(doc.Find("title").First().Text()); text != "" {
		return text
	}
	for _, selector := range []string{
		`meta[name="description"]`,
		`meta[property="og:description"]`,
		`meta[property="og:title"]`,
	} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if text := strings.TrimSpace(content); text != "" {
				return text
			}
		}
	}

	return ""
}

func (f *HeadlineFetcher) extractWithChat(ctx context.Context, name, site string, html []byte) (string, error) {
	truncated := html
	if len(truncated) > maxHTMLBytes {
		truncated = truncated[:maxHTMLBytes]
	}

	content, err := f.chat.Complete(ctx, ports.ChatRequest{
		System: headlineSystemPrompt,
		User: fmt.Sprintf("Extract the main headline or tagline for the startup '%s' from this website: %s\n\nHTML content:\n%s",
			name, site, truncated),
		MaxTokens:   100,
		Temperature: 0.3,
	})
	if err != nil {
		var aerr *ports.AnnotatorError
		if errors.As(err, &aerr) {
			return "", aerr
		}
		return "", ports.NewAnnotatorError(ports.ReasonUnknown, err)
	}

	headline := strings.Trim(strings.TrimSpace(content), `"'`)
	if looksLikeApology(headline) {
		return fmt.Sprintf("%s: Innovative Solutions for Modern Businesses", name), nil
	}
	return headline, nil
}

func looksLikeApology(headline string) bool {
	lowered := strings.ToLower(headline)
	for _, marker := range apologyMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
