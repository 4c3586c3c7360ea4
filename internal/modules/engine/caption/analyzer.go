// Package caption extracts format signals, hook lines and repeated
// structures from the captions of a candidate trend.
package caption

import (
	"regexp"
	"sort"
	"strings"
)

const (
	maxHooks      = 8
	hookWordLimit = 12
	hookMinChars  = 10
	dedupeWords   = 5
)

var stepNumberRe = regexp.MustCompile(`^\d+[.)]`)

// Analysis summarizes what the captions of a cluster have in common.
type Analysis struct {
	// SignalCounts maps format type to its evidence count.
	SignalCounts map[string]int
	// PrimarySignal is the strongest format type, or "" when no signal
	// clears the noise floor.
	PrimarySignal string
	// Hooks are representative opening lines.
	Hooks []string
	// Structures are recurring caption templates.
	Structures []string
}

// Analyze scans captions and hashtags for format evidence.
func Analyze(captions []string, hashtags []string) Analysis {
	lowered := make([]string, 0, len(captions))
	for _, c := range captions {
		if t := strings.TrimSpace(c); t != "" {
			lowered = append(lowered, strings.ToLower(t))
		}
	}

	counts := make(map[string]int)
	for format, phrases := range phraseSignals {
		for _, c := range lowered {
			for _, phrase := range phrases {
				if strings.Contains(c, phrase) {
					counts[format]++
					break
				}
			}
		}
	}

	// The hashtag bonus is flat per format, no matter how many of its
	// terms appear.
	joinedTags := strings.ToLower(strings.Join(hashtags, " "))
	for format, tags := range hashtagSignals {
		for _, tag := range tags {
			if strings.Contains(joinedTags, tag) {
				counts[format] += hashtagSignalBonus
				break
			}
		}
	}

	for format, n := range counts {
		if n == 0 {
			delete(counts, format)
		}
	}

	return Analysis{
		SignalCounts:  counts,
		PrimarySignal: primarySignal(counts),
		Hooks:         extractHooks(captions),
		Structures:    detectStructures(lowered),
	}
}

// primarySignal returns the format with the highest count, requiring at
// least minSignalCount. Ties break alphabetically for stable output.
func primarySignal(counts map[string]int) string {
	best := ""
	bestCount := 0
	formats := make([]string, 0, len(counts))
	for f := range counts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		if counts[f] > bestCount {
			best, bestCount = f, counts[f]
		}
	}
	if bestCount < minSignalCount {
		return ""
	}
	return best
}

// extractHooks keeps the opening words of each caption, deduplicated on
// their first few words so near-identical captions yield one hook.
func extractHooks(captions []string) []string {
	var hooks []string
	seen := make(map[string]struct{})
	for _, c := range captions {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		words := strings.Fields(trimmed)
		if len(words) > hookWordLimit {
			words = words[:hookWordLimit]
		}
		hook := strings.Join(words, " ")
		if len(hook) <= hookMinChars {
			continue
		}

		keyWords := words
		if len(keyWords) > dedupeWords {
			keyWords = keyWords[:dedupeWords]
		}
		key := strings.ToLower(strings.Join(keyWords, " "))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		hooks = append(hooks, hook)
		if len(hooks) == maxHooks {
			break
		}
	}
	return hooks
}

// detectStructures looks for caption templates repeated across the
// cluster. Input captions are lowercase and non-empty.
func detectStructures(lowered []string) []string {
	if len(lowered) == 0 {
		return nil
	}

	var structures []string
	povCount := 0
	questionCount := 0
	whenCount := 0
	revealCount := 0
	stepCount := 0

	for _, c := range lowered {
		if strings.HasPrefix(c, "pov") {
			povCount++
		}
		if strings.Contains(c, "?") {
			questionCount++
		}
		if strings.HasPrefix(c, "when ") || strings.HasPrefix(c, "me when") {
			whenCount++
		}
		if strings.Contains(c, "wait for it") || strings.Contains(c, "watch this") || strings.Contains(c, "wait til") {
			revealCount++
		}
		if strings.Contains(c, "step 1") || strings.Contains(c, "step one") || stepNumberRe.MatchString(c) {
			stepCount++
		}
	}

	half := (len(lowered) + 1) / 2
	if povCount >= 2 {
		structures = append(structures, "POV: [scenario]")
	}
	if questionCount >= half {
		structures = append(structures, "[Question]? [Response]")
	}
	if whenCount >= 2 {
		structures = append(structures, "[Setup] when [Situation]")
	}
	if revealCount >= 2 {
		structures = append(structures, "[Setup] + [Reveal]")
	}
	if stepCount >= 2 {
		structures = append(structures, "[Step 1] [Step 2] [Step 3]")
	}
	return structures
}

// IsOriginalSound reports whether an audio name denotes creator-original
// audio rather than a licensed track.
func IsOriginalSound(musicName *string) bool {
	if musicName == nil {
		return true
	}
	name := strings.ToLower(strings.TrimSpace(*musicName))
	if name == "" {
		return true
	}
	return strings.Contains(name, "original sound") ||
		strings.Contains(name, "original audio") ||
		strings.HasPrefix(name, "son original")
}
