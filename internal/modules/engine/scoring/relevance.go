package scoring

import (
	"math"
	"strings"
)

// Relevance scores how well a cluster fits a brand on a 0-100 scale.
// Hashtag overlap contributes up to 50, verbatim keyword mentions in
// captions up to 25, industry vocabulary alignment up to 25.
func Relevance(hashtags, captions, brandKeywords []string, industry string) int {
	score := hashtagOverlap(hashtags, brandKeywords) +
		captionMentions(captions, brandKeywords) +
		industryAlignment(hashtags, captions, industry)
	return clampScore(score)
}

func hashtagOverlap(hashtags, keywords []string) float64 {
	if len(keywords) == 0 || len(hashtags) == 0 {
		return 0
	}

	lowered := make([]string, len(hashtags))
	for i, tag := range hashtags {
		lowered[i] = strings.ToLower(strings.TrimPrefix(tag, "#"))
	}

	var matches float64
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		matched := false
		for _, tag := range lowered {
			if tag == kw || strings.Contains(tag, kw) || strings.Contains(kw, tag) {
				matches++
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		// Multi-word keywords get partial credit when any token shows
		// up inside a hashtag.
		tokens := strings.Fields(kw)
		if len(tokens) < 2 {
			continue
		}
	tokenScan:
		for _, token := range tokens {
			for _, tag := range lowered {
				if strings.Contains(tag, token) {
					matches += 0.5
					break tokenScan
				}
			}
		}
	}

	return math.Min(50, matches/float64(len(keywords))*50)
}

func captionMentions(captions, keywords []string) float64 {
	if len(keywords) == 0 || len(captions) == 0 {
		return 0
	}

	joined := strings.ToLower(strings.Join(captions, " "))
	mentions := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(joined, kw) {
			mentions++
		}
	}
	return float64(mentions) / float64(len(keywords)) * 25
}

func industryAlignment(hashtags, captions []string, industry string) float64 {
	terms := TermsForIndustry(industry)
	if len(terms) == 0 {
		return 0
	}

	text := strings.ToLower(strings.Join(hashtags, " ") + " " + strings.Join(captions, " "))
	found := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			found++
		}
	}
	// Half the term list matching is already full credit.
	return math.Min(25, float64(found)/float64(len(terms))*50)
}
