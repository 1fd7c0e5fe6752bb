package topics

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type scriptedGen struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *scriptedGen) Generate(_ context.Context, _ string, prompt string) (string, error) {
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	resp := ""
	if i < len(s.responses) {
		resp = s.responses[i]
	}
	return resp, err
}

func newTestAggregator(gen Generator, opts ...Option) *Aggregator {
	opts = append([]Option{WithRand(rand.New(rand.NewSource(1)))}, opts...)
	return NewAggregator(gen, "mistral", time.Second, testTopics, opts...)
}

func TestMergeSameBatchTwiceDoublesCount(t *testing.T) {
	a := newTestAggregator(&scriptedGen{})
	votes := []Vote{{Topic: "climate", Description: "Flood in Riverside", Count: 2}}

	a.Merge(votes)
	a.Merge(votes)

	leaders := a.Leaders()
	if assert.Len(t, leaders, 1) {
		assert.Equal(t, "climate", leaders[0].Topic)
		assert.Equal(t, "Flood in Riverside", leaders[0].Description)
		assert.Equal(t, 4, leaders[0].Count, "same description must reinforce one entry, not create a second")
	}
	assert.Len(t, a.tables["climate"].order, 1)
}

func TestLeadersTieBreaksFirstSeen(t *testing.T) {
	a := newTestAggregator(&scriptedGen{})
	a.Merge([]Vote{
		{Topic: "conflict", Description: "First story", Count: 3},
		{Topic: "conflict", Description: "Second story", Count: 3},
	})
	leaders := a.Leaders()
	if assert.Len(t, leaders, 1) {
		assert.Equal(t, "First story", leaders[0].Description)
	}
}

func TestRunSingleBatchFloodScenario(t *testing.T) {
	gen := &scriptedGen{responses: []string{`Topic: climate
Main news: Flood in Riverside forces evacuations
Article count: 2

Topic: conflict
Main news: Protest over bus fares
Article count: 1`}}
	a := newTestAggregator(gen)

	metas := []Meta{
		{ID: "a1", Title: "Riverside flood forces families out"},
		{ID: "a2", Title: "Flood waters keep rising in Riverside"},
		{ID: "a3", Title: "Protest over bus fares blocks avenue"},
	}
	leaders := a.Run(context.Background(), metas)

	assert.Equal(t, 1, gen.calls, "three articles fit one batch")

	byTopic := map[string]Leader{}
	for _, l := range leaders {
		byTopic[l.Topic] = l
	}
	climate := byTopic["climate"]
	assert.Contains(t, climate.Description, "Flood")
	assert.GreaterOrEqual(t, climate.Count, 2)
	assert.Less(t, byTopic["conflict"].Count, climate.Count)
}

func TestRunInjectsLeadersIntoLaterBatches(t *testing.T) {
	gen := &scriptedGen{responses: []string{
		"Topic: climate\nMain news: Storm damage on the coast\nArticle count: 2",
		"Topic: climate\nMain news: Storm damage on the coast\nArticle count: 3",
	}}
	a := newTestAggregator(gen, WithBatchSize(2))

	metas := []Meta{
		{Title: "Storm hits coast"}, {Title: "Coastal towns flooded"},
		{Title: "Storm damage grows"}, {Title: "More rain expected"},
	}
	leaders := a.Run(context.Background(), metas)

	assert.Equal(t, 2, gen.calls)
	assert.NotContains(t, gen.prompts[0], "Current leading story")
	assert.Contains(t, gen.prompts[1], "Current leading story")
	assert.Contains(t, gen.prompts[1], "Storm damage on the coast")

	if assert.Len(t, leaders, 1) {
		assert.Equal(t, 5, leaders[0].Count)
	}
}

func TestRunBatchFailureDegradesToEmptyContribution(t *testing.T) {
	gen := &scriptedGen{
		responses: []string{"", "Topic: crime\nMain news: Burglary wave in old town\nArticle count: 2"},
		errs:      []error{errors.New("timeout"), nil},
	}
	a := NewAggregator(gen, "mistral", time.Second,
		[]string{"crime", "miscellaneous"},
		WithRand(rand.New(rand.NewSource(1))), WithBatchSize(1))

	leaders := a.Run(context.Background(), []Meta{{Title: "one"}, {Title: "two"}})

	assert.Equal(t, 2, gen.calls, "run continues past a failed batch")
	if assert.Len(t, leaders, 1) {
		assert.Equal(t, "crime", leaders[0].Topic)
		assert.Equal(t, 2, leaders[0].Count)
	}
}

func TestProcessBatchEmptyIsNoop(t *testing.T) {
	gen := &scriptedGen{}
	a := newTestAggregator(gen)
	assert.NoError(t, a.ProcessBatch(context.Background(), nil))
	assert.Zero(t, gen.calls)
}
