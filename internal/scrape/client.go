package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/trialscan/ctri-extract/internal/extract"
)

const (
	// defaultBaseURL is the registry's public trial detail prefix.
	defaultBaseURL = "https://ctri.nic.in/Clinicaltrials/"

	defaultUserAgent = "ctri-extract/1.0"

	// maxBodySize caps a fetched page.
	maxBodySize = 4 * 1024 * 1024
)

// trialURLRe finds the detail page links embedded in the registry's
// search results markup.
var trialURLRe = regexp.MustCompile(`newwin2\('([^']+)'\)`)

// Client fetches trial registration pages from the registry website. It
// is the fallback path for documents whose PDF yields too few fields.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a scrape client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
	}
}

// NewClientWithBaseURL creates a scrape client pointed at a non-default
// registry endpoint. Used by tests and mirror deployments.
func NewClientWithBaseURL(timeout time.Duration, baseURL string) *Client {
	c := NewClient(timeout)
	c.baseURL = strings.TrimSuffix(baseURL, "/") + "/"
	return c
}

// FetchRecord downloads a trial detail page and parses it into a record.
func (c *Client) FetchRecord(ctx context.Context, pageURL string) (*extract.Record, error) {
	body, err := c.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ParseRecord(body, pageURL), nil
}

// FetchRecordByNumber resolves a CTRI registration number to its detail
// page and fetches it.
func (c *Client) FetchRecordByNumber(ctx context.Context, ctriNumber string) (*extract.Record, error) {
	if !ctriNumberRe.MatchString(ctriNumber) {
		return nil, fmt.Errorf("invalid CTRI number: %q", ctriNumber)
	}
	return c.FetchRecord(ctx, c.baseURL+"pmaindet2.php?trialid="+ctriNumber)
}

// TrialURLs extracts the trial detail links from a search results page.
func (c *Client) TrialURLs(pageHTML string) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, m := range trialURLRe.FindAllStringSubmatch(pageHTML, -1) {
		link := m[1]
		if !strings.Contains(link, "pmaindet2.php") {
			continue
		}
		full := c.baseURL + link
		if seen[full] {
			continue
		}
		seen[full] = true
		urls = append(urls, full)
	}
	return urls
}

func (c *Client) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}
