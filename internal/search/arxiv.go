package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"frontier/internal/metrics"
	"frontier/internal/models"
	"frontier/internal/util"
	"frontier/pkg/log"
	"frontier/pkg/retry"
)

const DefaultArxivURL = "https://export.arxiv.org/api/query"

// ArxivClient queries the arXiv Atom API.
type ArxivClient struct {
	baseURL string
	client  *http.Client
	retrier *retry.Retrier
}

func NewArxivClient(baseURL string) *ArxivClient {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultArxivURL
	}
	return &ArxivClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		retrier: retry.NewDefaultRetrier(),
	}
}

// WithRetrier swaps the retry policy; tests use a zero-delay one.
func (a *ArxivClient) WithRetrier(r *retry.Retrier) *ArxivClient {
	a.retrier = r
	return a
}

func (a *ArxivClient) Name() string { return "arxiv" }

func (a *ArxivClient) Search(ctx context.Context, q Query) ([]models.PaperRecord, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, fmt.Errorf("arxiv search: empty query")
	}
	if q.MaxResults <= 0 {
		return nil, fmt.Errorf("arxiv search: max results must be positive")
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = SortSubmittedDate
	}
	params := url.Values{}
	params.Set("search_query", text)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(q.MaxResults))
	params.Set("sortBy", string(sortBy))
	params.Set("sortOrder", "descending")
	endpoint := a.baseURL + "?" + params.Encode()

	var body []byte
	err := a.retrier.Do(ctx, func() error {
		b, err := a.fetch(ctx, endpoint)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		metrics.SearchCallsTotal.WithLabelValues(a.Name(), "failed").Inc()
		return nil, err
	}

	papers, err := parseAtomFeed(body)
	if err != nil {
		metrics.SearchCallsTotal.WithLabelValues(a.Name(), "failed").Inc()
		return nil, err
	}
	if len(papers) > q.MaxResults {
		papers = papers[:q.MaxResults]
	}
	metrics.SearchCallsTotal.WithLabelValues(a.Name(), "ok").Inc()
	log.FromCtx(ctx).Debug().Str("query", text).Int("results", len(papers)).Msg("arxiv search")
	return papers, nil
}

func (a *ArxivClient) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create arxiv request: %w", err))
	}
	req.Header.Set("Accept", "application/atom+xml")
	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.Permanent(fmt.Errorf("arxiv request failed: %w", err))
		}
		return nil, fmt.Errorf("arxiv request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read arxiv response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("arxiv error %d: %s", resp.StatusCode, util.DisplaySnippet(string(body), 200))
	case resp.StatusCode >= 400:
		return nil, retry.Permanent(fmt.Errorf("arxiv error %d: %s", resp.StatusCode, util.DisplaySnippet(string(body), 200)))
	}
	return body, nil
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Updated   string `xml:"updated"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Links []struct {
		Href  string `xml:"href,attr"`
		Rel   string `xml:"rel,attr"`
		Title string `xml:"title,attr"`
		Type  string `xml:"type,attr"`
	} `xml:"link"`
	PrimaryCategory struct {
		Term string `xml:"term,attr"`
	} `xml:"http://arxiv.org/schemas/atom primary_category"`
}

func parseAtomFeed(body []byte) ([]models.PaperRecord, error) {
	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode arxiv feed: %w", err)
	}
	out := make([]models.PaperRecord, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		id := strings.TrimSpace(e.ID)
		// The API reports query errors as a single entry whose id points at the error page.
		if id == "" || strings.Contains(id, "/api/errors") {
			if id != "" {
				return nil, fmt.Errorf("arxiv query error: %s", util.NormalizeWhitespace(e.Summary))
			}
			continue
		}
		published := entryTime(e)
		authors := make([]string, 0, len(e.Authors))
		for _, a := range e.Authors {
			if name := util.NormalizeWhitespace(a.Name); name != "" {
				authors = append(authors, name)
			}
		}
		out = append(out, models.PaperRecord{
			ID:        id,
			Title:     util.NormalizeWhitespace(e.Title),
			Authors:   authors,
			Abstract:  util.NormalizeWhitespace(util.SanitizeText(e.Summary)),
			Published: published,
			Category:  strings.TrimSpace(e.PrimaryCategory.Term),
			PDFURL:    pdfLink(e),
		})
	}
	return out, nil
}

// entryTime is the published stamp, else the updated one. Zero when neither parses.
func entryTime(e atomEntry) time.Time {
	for _, raw := range []string{e.Published, e.Updated} {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw)); err == nil {
			return t
		}
	}
	return time.Time{}
}

func pdfLink(e atomEntry) string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	// Entry ids are abs URLs; the PDF lives at the same path under /pdf/.
	return strings.Replace(strings.TrimSpace(e.ID), "/abs/", "/pdf/", 1)
}
