package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevance_PartialHashtagAndCaptionMatch(t *testing.T) {
	keywords := []string{"vegan", "recipe"}
	hashtags := []string{"veganfood", "cooking"}
	captions := []string{"trying this vegan bowl tonight"}

	score := Relevance(hashtags, captions, keywords, "")
	assert.Greater(t, score, 0)
	assert.LessOrEqual(t, score, 100)

	for i := 0; i < 3; i++ {
		assert.Equal(t, score, Relevance(hashtags, captions, keywords, ""))
	}
}

func TestRelevance_FullKeywordOverlap(t *testing.T) {
	score := Relevance(
		[]string{"fitness", "workout"},
		nil,
		[]string{"fitness", "workout"},
		"",
	)
	assert.Equal(t, 50, score)
}

func TestRelevance_MultiWordKeywordHalfMatch(t *testing.T) {
	// "protein" from "protein shake" appears inside a hashtag but the
	// full phrase does not.
	score := hashtagOverlap([]string{"proteinrecipes"}, []string{"protein shake"})
	assert.InDelta(t, 25.0, score, 0.001) // 0.5/1 * 50
}

func TestRelevance_IndustryAlignment(t *testing.T) {
	// Half the Food & Beverage term list matching maxes the component.
	score := industryAlignment(
		[]string{"food", "recipe", "cooking", "snack"},
		nil,
		"Food & Beverage",
	)
	assert.Equal(t, 25.0, score)
}

func TestRelevance_UnknownIndustryContributesZero(t *testing.T) {
	assert.Zero(t, industryAlignment([]string{"food"}, nil, "Underwater Basketweaving"))
}

func TestRelevance_NoKeywordsNoError(t *testing.T) {
	assert.Equal(t, 0, Relevance([]string{"anything"}, []string{"caption"}, nil, ""))
}
