package parser

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"launchscanner/internal/domain"
)

const trackingParam = "?ref=shipfast_leaderboard"

// LeaderboardScanner crawls the public leaderboard page and extracts launch
// records in rank order.
type LeaderboardScanner struct {
	client *resty.Client
	limit  int
}

// NewLeaderboardScanner wires an HTTP client; limit defaults to 100.
func NewLeaderboardScanner(client *resty.Client, limit int) *LeaderboardScanner {
	if client == nil {
		client = resty.New().
			SetTimeout(10 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(8 * time.Second)
	}
	if limit <= 0 {
		limit = 100
	}
	return &LeaderboardScanner{client: client, limit: limit}
}

// Scan fetches the page and returns up to limit launches.
func (s *LeaderboardScanner) Scan(ctx context.Context, pageURL string) ([]domain.Launch, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", "launchscanner/1.0").
		Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("request leaderboard: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("leaderboard returned %s", resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse leaderboard: %w", err)
	}

	return s.extractLaunches(doc)
}

func (s *LeaderboardScanner) extractLaunches(doc *goquery.Document) ([]domain.Launch, error) {
	table := doc.Find("table.table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("leaderboard table not found")
	}

	var launches []domain.Launch
	table.Find("tbody > tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= s.limit {
			return false
		}

		launch, err := parseRow(i, row)
		if err != nil {
			return true
		}
		launches = append(launches, launch)
		return true
	})

	return launches, nil
}

func parseRow(index int, row *goquery.Selection) (domain.Launch, error) {
	cells := row.Find("td")
	if cells.Length() < 3 {
		return domain.Launch{}, fmt.Errorf("row %d has %d cells", index, cells.Length())
	}

	// Top 3 rows show medal emojis instead of a numeric rank.
	rank := index + 1
	if index >= 3 {
		rankText := strings.TrimSpace(cells.Eq(0).Find("span.text-lg").First().Text())
		parsed, err := strconv.Atoi(rankText)
		if err != nil {
			return domain.Launch{}, fmt.Errorf("row %d: parse rank %q: %w", index, rankText, err)
		}
		rank = parsed
	}

	link := cells.Eq(1).Find("a.link").First()
	name := strings.TrimSpace(link.Text())
	if name == "" {
		return domain.Launch{}, fmt.Errorf("row %d: startup name missing", index)
	}
	siteURL, _ := link.Attr("href")
	if idx := strings.Index(siteURL, trackingParam); idx >= 0 {
		siteURL = siteURL[:idx]
	}

	revenueText := strings.TrimSpace(cells.Eq(2).Find("span").First().Text())
	revenue, err := parseRevenue(revenueText)
	if err != nil {
		return domain.Launch{}, fmt.Errorf("row %d: %w", index, err)
	}

	launch := domain.Launch{
		Rank:    rank,
		Startup: name,
		URL:     siteURL,
		Revenue: revenue,
	}

	if cells.Length() > 3 {
		if maker, ok := cells.Eq(3).Find("a.link").First().Attr("href"); ok {
			maker = strings.TrimSpace(maker)
			if maker != "" {
				launch.Maker = strings.Replace(maker, "twitter.com", "x.com", 1)
			}
		}
	}

	return launch, nil
}

func parseRevenue(text string) (int, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(text)
	revenue, err := strconv.Atoi(strings.TrimSpace(cleaned))
	if err != nil {
		return 0, fmt.Errorf("parse revenue %q: %w", text, err)
	}
	if revenue < 0 {
		return 0, fmt.Errorf("negative revenue %d", revenue)
	}
	return revenue, nil
}
