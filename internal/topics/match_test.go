package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchExactCaseInsensitive(t *testing.T) {
	topics := []string{"conflict", "climate", "miscellaneous"}
	assert.Equal(t, "conflict", Match("Conflict", topics))
	assert.Equal(t, "climate", Match("CLIMATE", topics))
}

func TestMatchSubstringEitherDirection(t *testing.T) {
	topics := []string{"conflict", "climate", "miscellaneous"}
	assert.Equal(t, "climate", Match("climate disaster", topics))
	assert.Equal(t, "conflict and protests", Match("conflict", []string{"conflict and protests", "climate"}))
}

func TestMatchUnrecognizedGoesToMiscellaneous(t *testing.T) {
	topics := []string{"conflict", "climate", "miscellaneous"}
	assert.Equal(t, "miscellaneous", Match("sports", topics))
}

func TestMatchNoMiscFallsBackToFirstTopic(t *testing.T) {
	topics := []string{"conflict", "climate"}
	assert.Equal(t, "conflict", Match("sports", topics))
}

func TestMatchNearMissSpelling(t *testing.T) {
	topics := []string{"conflict", "climate", "miscellaneous"}
	assert.Equal(t, "climate", Match("climat", topics))
}

func TestMatchEmptyInputs(t *testing.T) {
	assert.Equal(t, "", Match("anything", nil))
	topics := []string{"conflict", "miscellaneous"}
	assert.Equal(t, "miscellaneous", Match("", topics))
}
