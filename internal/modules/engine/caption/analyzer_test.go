package caption

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_PhraseSignals(t *testing.T) {
	captions := []string{
		"POV: you just found the perfect coffee shop",
		"pov: monday mornings hit different",
		"GRWM for a night out",
	}

	a := Analyze(captions, nil)
	assert.Equal(t, 2, a.SignalCounts["pov_format"])
	assert.Equal(t, 1, a.SignalCounts["grwm"])
	assert.Equal(t, "pov_format", a.PrimarySignal)
}

func TestAnalyze_HashtagBonus(t *testing.T) {
	a := Analyze(nil, []string{"grwm", "makeup"})
	assert.Equal(t, 2, a.SignalCounts["grwm"])
	assert.Equal(t, "grwm", a.PrimarySignal)
}

func TestAnalyze_HashtagBonusIsFlatPerFormat(t *testing.T) {
	a := Analyze(nil, []string{"grwm", "getreadywithme"})
	assert.Equal(t, 2, a.SignalCounts["grwm"])
}

func TestAnalyze_StackedHashtagsCannotOutvotePhrases(t *testing.T) {
	captions := []string{
		"POV: you open the fridge at midnight",
		"pov: the gym at 6am",
		"pov you finally get the aux",
	}
	a := Analyze(captions, []string{"grwm", "getreadywithme"})
	assert.Equal(t, 3, a.SignalCounts["pov_format"])
	assert.Equal(t, 2, a.SignalCounts["grwm"])
	assert.Equal(t, "pov_format", a.PrimarySignal)
}

func TestAnalyze_NoSignalBelowFloor(t *testing.T) {
	a := Analyze([]string{"just a normal caption about nothing special"}, nil)
	assert.Empty(t, a.PrimarySignal)
}

func TestAnalyze_SingleMentionIsNotPrimary(t *testing.T) {
	a := Analyze([]string{"how to make pasta at home tonight"}, nil)
	assert.Equal(t, 1, a.SignalCounts["tutorial_format"])
	assert.Empty(t, a.PrimarySignal)
}

func TestExtractHooks_TruncatesAndDedupes(t *testing.T) {
	long := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen"
	captions := []string{
		long,
		"one two three four five completely different tail here",
		"short",
		"",
		"a distinct opening line for the second hook",
	}

	hooks := extractHooks(captions)
	require.Len(t, hooks, 2)
	assert.Equal(t, "one two three four five six seven eight nine ten eleven twelve", hooks[0])
	assert.Equal(t, "a distinct opening line for the second hook", hooks[1])
}

func TestExtractHooks_CapsAtEight(t *testing.T) {
	var captions []string
	for i := 0; i < 20; i++ {
		captions = append(captions, fmt.Sprintf("unique opening number %d with plenty of words after it", i))
	}
	assert.Len(t, extractHooks(captions), 8)
}

func TestDetectStructures(t *testing.T) {
	t.Run("pov template", func(t *testing.T) {
		a := Analyze([]string{
			"POV: your barista knows your order",
			"pov you walk into the gym",
			"something else entirely",
		}, nil)
		assert.Contains(t, a.Structures, "POV: [scenario]")
	})

	t.Run("question template needs half", func(t *testing.T) {
		a := Analyze([]string{
			"did you know this trick?",
			"what would you do?",
			"no question here",
			"none here either",
		}, nil)
		assert.Contains(t, a.Structures, "[Question]? [Response]")

		b := Analyze([]string{
			"did you know this trick?",
			"no question here",
			"none here either",
			"still nothing",
		}, nil)
		assert.NotContains(t, b.Structures, "[Question]? [Response]")
	})

	t.Run("reveal template", func(t *testing.T) {
		a := Analyze([]string{
			"wait for it at the end",
			"ok now watch this move",
		}, nil)
		assert.Contains(t, a.Structures, "[Setup] + [Reveal]")
	})

	t.Run("step template", func(t *testing.T) {
		a := Analyze([]string{
			"step 1 prep your ingredients",
			"1) gather everything first",
		}, nil)
		assert.Contains(t, a.Structures, "[Step 1] [Step 2] [Step 3]")
	})

	t.Run("when template", func(t *testing.T) {
		a := Analyze([]string{
			"when your coffee finally kicks in",
			"me when the weekend arrives",
		}, nil)
		assert.Contains(t, a.Structures, "[Setup] when [Situation]")
	})
}

func TestIsOriginalSound(t *testing.T) {
	assert.True(t, IsOriginalSound(nil))
	assert.True(t, IsOriginalSound(strptr("")))
	assert.True(t, IsOriginalSound(strptr("original sound - creator123")))
	assert.True(t, IsOriginalSound(strptr("Original Audio")))
	assert.True(t, IsOriginalSound(strptr("son original - créateur")))
	assert.False(t, IsOriginalSound(strptr("Flowers - Miley Cyrus")))
}

func strptr(s string) *string { return &s }
