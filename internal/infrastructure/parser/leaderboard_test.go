package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
)

const leaderboardHTML = `
<table class="table">
  <tbody>
    <tr>
      <td><span>🥇</span></td>
      <td><a class="link" href="https://acme.dev?ref=shipfast_leaderboard">Acme</a></td>
      <td><span>$125,000</span></td>
      <td><a class="link" href="https://twitter.com/acme">@acme</a></td>
    </tr>
    <tr>
      <td><span>🥈</span></td>
      <td><a class="link" href="https://beta.io">BetaWorks</a></td>
      <td><span>$90,500</span></td>
      <td></td>
    </tr>
    <tr>
      <td><span>🥉</span></td>
      <td><a class="link" href="https://gamma.app">Gamma</a></td>
      <td><span>$52,300</span></td>
      <td><a class="link" href="https://x.com/gamma">@gamma</a></td>
    </tr>
    <tr>
      <td><span class="text-lg">4</span></td>
      <td><a class="link" href="https://delta.co?ref=shipfast_leaderboard">Delta</a></td>
      <td><span>$12,000</span></td>
      <td><a class="link" href="https://x.com/delta">@delta</a></td>
    </tr>
  </tbody>
</table>`

func testClient() *resty.Client {
	return resty.New().SetTimeout(2 * time.Second)
}

func TestLeaderboardScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(leaderboardHTML))
	}))
	defer server.Close()

	sc := NewLeaderboardScanner(testClient(), 100)

	launches, err := sc.Scan(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(launches) != 4 {
		t.Fatalf("expected 4 launches, got %d", len(launches))
	}

	first := launches[0]
	if first.Rank != 1 {
		t.Fatalf("expected medal row to rank 1, got %d", first.Rank)
	}
	if first.Startup != "Acme" {
		t.Fatalf("unexpected startup: %s", first.Startup)
	}
	if first.URL != "https://acme.dev" {
		t.Fatalf("tracking parameter not stripped: %s", first.URL)
	}
	if first.Revenue != 125000 {
		t.Fatalf("unexpected revenue: %d", first.Revenue)
	}
	if first.Maker != "https://x.com/acme" {
		t.Fatalf("twitter.com not rewritten to x.com: %s", first.Maker)
	}

	if launches[1].Maker != "" {
		t.Fatalf("expected empty maker, got %s", launches[1].Maker)
	}

	fourth := launches[3]
	if fourth.Rank != 4 {
		t.Fatalf("expected numeric rank 4, got %d", fourth.Rank)
	}
	if fourth.URL != "https://delta.co" {
		t.Fatalf("tracking parameter not stripped: %s", fourth.URL)
	}
}

func TestLeaderboardScanLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(leaderboardHTML))
	}))
	defer server.Close()

	sc := NewLeaderboardScanner(testClient(), 2)

	launches, err := sc.Scan(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(launches) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(launches))
	}
}

func TestLeaderboardMissingTable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>maintenance</p></body></html>`))
	}))
	defer server.Close()

	sc := NewLeaderboardScanner(testClient(), 100)

	if _, err := sc.Scan(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestParseRevenue(t *testing.T) {
	t.Parallel()

	revenue, err := parseRevenue("$1,234,567")
	if err != nil {
		t.Fatalf("parseRevenue error: %v", err)
	}
	if revenue != 1234567 {
		t.Fatalf("unexpected revenue: %d", revenue)
	}

	if _, err := parseRevenue("n/a"); err == nil {
		t.Fatal("expected error for non-numeric revenue")
	}
}
