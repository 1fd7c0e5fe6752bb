package topics

import (
	"context"
	"math/rand"
	"time"

	"newsmap/internal/logger"
	"newsmap/internal/metrics"
)

// Meta is the cheap per-article metadata the aggregator works from. The
// full text never enters a batch prompt.
type Meta struct {
	ID       string
	Title    string
	Subtitle string
}

// Vote is one parsed (topic, description, count) triple from a batch
// response. Count is always >= 1.
type Vote struct {
	Topic       string
	Description string
	Count       int
}

// Leader is the highest-tallied description for one topic after all
// batches have been merged.
type Leader struct {
	Topic       string
	Description string
	Count       int
}

// Generator is the model call the aggregator needs; satisfied by
// *ollama.Client.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// tally accumulates counts per description, remembering insertion order so
// ties break toward the first-seen description.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(description string, count int) {
	if _, seen := t.counts[description]; !seen {
		t.order = append(t.order, description)
	}
	t.counts[description] += count
}

func (t *tally) leading() (string, int) {
	best, bestCount := "", 0
	for _, desc := range t.order {
		if t.counts[desc] > bestCount {
			best, bestCount = desc, t.counts[desc]
		}
	}
	return best, bestCount
}

// Aggregator determines, per country, the single most-discussed news item
// under each predefined topic. It holds the only mutable state of a
// country run: one frequency table per topic, fed by sequential batch
// calls and discarded once the leaders are extracted.
type Aggregator struct {
	gen       Generator
	model     string
	timeout   time.Duration
	topics    []string
	batchSize int
	rng       *rand.Rand

	tables map[string]*tally
}

// Option tweaks aggregator construction.
type Option func(*Aggregator)

// WithRand makes batch shuffling deterministic, for tests.
func WithRand(rng *rand.Rand) Option {
	return func(a *Aggregator) { a.rng = rng }
}

// WithBatchSize overrides the default batch size of 15.
func WithBatchSize(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

func NewAggregator(gen Generator, model string, timeout time.Duration, topics []string, opts ...Option) *Aggregator {
	a := &Aggregator{
		gen:       gen,
		model:     model,
		timeout:   timeout,
		topics:    topics,
		batchSize: 15,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		tables:    make(map[string]*tally),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run shuffles the metadata, partitions it into batches and feeds each
// batch through the model, merging the parsed votes into the running
// tables. A failed batch contributes nothing and the run continues.
// Batches are strictly sequential: each prompt embeds the leaders derived
// from all previous batches.
func (a *Aggregator) Run(ctx context.Context, metas []Meta) []Leader {
	shuffled := make([]Meta, len(metas))
	copy(shuffled, metas)
	a.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for start := 0; start < len(shuffled); start += a.batchSize {
		end := start + a.batchSize
		if end > len(shuffled) {
			end = len(shuffled)
		}
		if err := a.ProcessBatch(ctx, shuffled[start:end]); err != nil {
			logger.Warn("topic batch failed, skipping", "batch_start", start, "error", err)
			metrics.Global.IncrementBatchesFailed()
			continue
		}
		metrics.Global.IncrementBatchesProcessed()
	}
	return a.Leaders()
}

// ProcessBatch sends one batch to the model and merges whatever votes can
// be parsed out of the response.
func (a *Aggregator) ProcessBatch(ctx context.Context, batch []Meta) error {
	if len(batch) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	response, err := a.gen.Generate(ctx, a.model, a.buildBatchPrompt(batch))
	if err != nil {
		return err
	}
	a.Merge(ParseVotes(response, a.topics))
	return nil
}

// Merge folds parsed votes into the running tables. Equal description
// strings from different batches reinforce the same tally entry.
func (a *Aggregator) Merge(votes []Vote) {
	for _, v := range votes {
		table := a.tables[v.Topic]
		if table == nil {
			table = newTally()
			a.tables[v.Topic] = table
		}
		table.add(v.Description, v.Count)
	}
}

// Leaders extracts the current leading description per topic, in the
// fixed topic order. Topics with no votes are skipped.
func (a *Aggregator) Leaders() []Leader {
	var leaders []Leader
	for _, topic := range a.topics {
		table := a.tables[topic]
		if table == nil {
			continue
		}
		desc, count := table.leading()
		if desc == "" {
			continue
		}
		leaders = append(leaders, Leader{Topic: topic, Description: desc, Count: count})
	}
	return leaders
}
