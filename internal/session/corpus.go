package session

import (
	"context"
	"iter"
	"strings"
	"sync"
	"time"

	"frontier/internal/metrics"
	"frontier/internal/models"
	"frontier/internal/providers"
	"frontier/internal/search"
	"frontier/pkg/log"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Corpus owns the session's summary entries. It is the only writer of the store.
type Corpus struct {
	sessionID    string
	search       search.Provider
	llm          providers.LLMProvider
	summaryModel string
	store        *summaryStore
	flight       singleflight.Group
	now          func() time.Time
}

func NewCorpus(sessionID string, searcher search.Provider, llm providers.LLMProvider, summaryModel string) *Corpus {
	return &Corpus{
		sessionID:    sessionID,
		search:       searcher,
		llm:          llm,
		summaryModel: summaryModel,
		store:        newSummaryStore(),
		now:          time.Now,
	}
}

// Item is one paper of a discovery with its summary or the reason it has none.
type Item struct {
	Paper  models.PaperRecord
	Entry  models.SummaryEntry
	Cached bool
	Err    error
}

func (i Item) OK() bool { return i.Err == nil }

type DiscoveryStats struct {
	Total     int `json:"total"`
	Generated int `json:"generated"`
	Cached    int `json:"cached"`
	Failed    int `json:"failed"`
}

func (s *DiscoveryStats) add(it Item) {
	switch {
	case it.Err != nil:
		s.Failed++
	case it.Cached:
		s.Cached++
	default:
		s.Generated++
	}
}

// Discovery is the result of one search. Summaries are produced while iterating.
type Discovery struct {
	Topic     string
	Expertise models.Expertise
	Papers    []models.PaperRecord

	corpus  *Corpus
	workers int
	stats   DiscoveryStats
}

// Empty reports a successful search with no results.
func (d *Discovery) Empty() bool { return len(d.Papers) == 0 }

func (d *Discovery) Stats() DiscoveryStats { return d.stats }

func (d *Discovery) resetStats() {
	d.stats = DiscoveryStats{Total: len(d.Papers)}
}

// Items lazily summarizes papers in provider order, one completion call per
// paper that is not already in the store. Stats describe the latest pass.
func (d *Discovery) Items(ctx context.Context) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		d.resetStats()
		for _, p := range d.Papers {
			it := d.corpus.Summarize(ctx, p, d.Expertise)
			d.stats.add(it)
			if !yield(it) {
				return
			}
		}
	}
}

// Collect drains the discovery. With more than one worker the completion calls
// run in parallel; results keep provider order either way.
func (d *Discovery) Collect(ctx context.Context) []Item {
	return d.collect(ctx, nil)
}

// collect hands each item to onItem as soon as it is ready. With parallel
// workers that is completion order; the returned slice is in provider order.
func (d *Discovery) collect(ctx context.Context, onItem func(Item)) []Item {
	if d.workers > 1 {
		d.resetStats()
		items := d.corpus.summarizeAll(ctx, d.Papers, d.Expertise, d.workers, onItem)
		for _, it := range items {
			d.stats.add(it)
		}
		return items
	}
	out := make([]Item, 0, len(d.Papers))
	for it := range d.Items(ctx) {
		if onItem != nil {
			onItem(it)
		}
		out = append(out, it)
	}
	return out
}

// Search runs the search provider for topic, newest first.
func (c *Corpus) Search(ctx context.Context, topic string, resultCap int) ([]models.PaperRecord, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if resultCap <= 0 {
		return nil, ErrInvalidResultCap
	}
	papers, err := c.search.Search(ctx, search.Query{Text: topic, MaxResults: resultCap, SortBy: search.SortSubmittedDate})
	if err != nil {
		return nil, &FetchError{Topic: topic, Err: err}
	}
	return papers, nil
}

func (c *Corpus) FetchAndSummarize(ctx context.Context, topic string, resultCap int, level models.Expertise) (*Discovery, error) {
	return c.fetch(ctx, topic, resultCap, level, 1)
}

func (c *Corpus) fetch(ctx context.Context, topic string, resultCap int, level models.Expertise, workers int) (*Discovery, error) {
	papers, err := c.Search(ctx, topic, resultCap)
	if err != nil {
		return nil, err
	}
	log.FromCtx(ctx).Info().Str("session", c.sessionID).Str("topic", topic).Int("papers", len(papers)).Msg("papers fetched")
	return &Discovery{
		Topic:     strings.TrimSpace(topic),
		Expertise: level,
		Papers:    papers,
		corpus:    c,
		workers:   workers,
		stats:     DiscoveryStats{Total: len(papers)},
	}, nil
}

type flightResult struct {
	entry    models.SummaryEntry
	inserted bool
}

// Summarize returns the stored entry for p or generates one. Concurrent calls for
// the same paper share a single provider call.
func (c *Corpus) Summarize(ctx context.Context, p models.PaperRecord, level models.Expertise) Item {
	if e, ok := c.store.Get(p.ID); ok {
		metrics.SummaryLookupsTotal.WithLabelValues("hit").Inc()
		return Item{Paper: p, Entry: e, Cached: true}
	}

	v, err, _ := c.flight.Do(p.ID, func() (any, error) {
		if e, ok := c.store.Get(p.ID); ok {
			return flightResult{entry: e}, nil
		}
		resp, _, err := c.llm.Generate(ctx, providers.GenerateRequest{
			Operation: providers.OperationSummary,
			SessionID: c.sessionID,
			PaperID:   p.ID,
			Model:     c.summaryModel,
			Messages:  []providers.Message{{Role: models.RoleUser, Content: BuildSummaryPrompt(p, level)}},
		})
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return nil, ErrEmptySummary
		}
		entry, inserted := c.store.Insert(models.SummaryEntry{
			PaperID:   p.ID,
			Title:     p.Title,
			Summary:   text,
			PDFURL:    p.PDFURL,
			Category:  p.Category,
			CreatedAt: c.now(),
		})
		return flightResult{entry: entry, inserted: inserted}, nil
	})
	if err != nil {
		metrics.SummaryLookupsTotal.WithLabelValues("failed").Inc()
		log.FromCtx(ctx).Warn().Err(err).Str("session", c.sessionID).Str("paper_id", p.ID).Msg("summary generation failed")
		return Item{Paper: p, Err: &SummaryError{PaperID: p.ID, Title: p.Title, Err: err}}
	}
	res := v.(flightResult)
	if res.inserted {
		metrics.SummaryLookupsTotal.WithLabelValues("generated").Inc()
	} else {
		metrics.SummaryLookupsTotal.WithLabelValues("hit").Inc()
	}
	return Item{Paper: p, Entry: res.entry, Cached: !res.inserted}
}

// SummarizeAll fans out over papers with at most workers calls in flight.
func (c *Corpus) SummarizeAll(ctx context.Context, papers []models.PaperRecord, level models.Expertise, workers int) []Item {
	return c.summarizeAll(ctx, papers, level, workers, nil)
}

func (c *Corpus) summarizeAll(ctx context.Context, papers []models.PaperRecord, level models.Expertise, workers int, onItem func(Item)) []Item {
	if workers <= 0 {
		workers = 1
	}
	out := make([]Item, len(papers))
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(workers)
	for i, p := range papers {
		g.Go(func() error {
			it := c.Summarize(ctx, p, level)
			out[i] = it
			if onItem != nil {
				mu.Lock()
				onItem(it)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (c *Corpus) Get(id string) (models.SummaryEntry, bool) { return c.store.Get(id) }

func (c *Corpus) Entries() []models.SummaryEntry { return c.store.Entries() }

func (c *Corpus) Len() int { return c.store.Len() }

// Reset drops every entry.
func (c *Corpus) Reset() { c.store.Reset() }
