package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testTopics = []string{"conflict", "climate", "miscellaneous"}

func TestParseVotesTriples(t *testing.T) {
	response := `Here is my analysis of the batch:

Topic: climate
Main news: Flooding along the river in Riverside
Article count: 4

Topic: Conflict
Main news: Transit workers strike downtown
Article count: 2
`
	votes := ParseVotes(response, testTopics)
	assert.Equal(t, []Vote{
		{Topic: "climate", Description: "Flooding along the river in Riverside", Count: 4},
		{Topic: "conflict", Description: "Transit workers strike downtown", Count: 2},
	}, votes)
}

func TestParseVotesNonNumericCountDefaultsToOne(t *testing.T) {
	response := `Topic: climate
Main news: Drought conditions worsening
Article count: several`
	votes := ParseVotes(response, testTopics)
	assert.Equal(t, 1, votes[0].Count)
}

func TestParseVotesMissingCountDefaultsToOne(t *testing.T) {
	response := `Topic: climate
Main news: Storm moving inland
Topic: conflict
Main news: Border clash reported
Article count: 3`
	votes := ParseVotes(response, testTopics)
	assert.Len(t, votes, 2)
	assert.Equal(t, 1, votes[0].Count)
	assert.Equal(t, 3, votes[1].Count)
}

func TestParseVotesMarkdownDecorations(t *testing.T) {
	response := "**Topic:** climate\n**Main news:** Heatwave across the coast\n**Article count:** 5"
	votes := ParseVotes(response, testTopics)
	if assert.Len(t, votes, 1) {
		assert.Equal(t, "climate", votes[0].Topic)
		assert.Equal(t, "Heatwave across the coast", votes[0].Description)
		assert.Equal(t, 5, votes[0].Count)
	}
}

func TestParseVotesIgnoresJunkLines(t *testing.T) {
	response := `Sure! Based on the headlines:
Topic: sports
Main news: Local team wins derby
Article count: 2
That is everything I found.`
	votes := ParseVotes(response, testTopics)
	if assert.Len(t, votes, 1) {
		assert.Equal(t, "miscellaneous", votes[0].Topic, "unknown label maps to the misc bucket")
	}
}

func TestParseVotesUnparseableResponse(t *testing.T) {
	assert.Empty(t, ParseVotes("the model refused to answer", testTopics))
	assert.Empty(t, ParseVotes("", testTopics))
}
