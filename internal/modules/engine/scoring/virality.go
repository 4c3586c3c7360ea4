package scoring

import (
	"math"
	"time"
)

// Virality weights: views 40%, engagement 30%, shares 20%, recency 10%.
const (
	viewLogCap    = 9.0 // log10 of 1B views
	shareLogCap   = 5.0 // log10 of 100K shares
	engRateCap    = 0.25
	recencyWindow = 14 * 24 * time.Hour
)

// ItemScore is the per-post score computed at ingest time.
type ItemScore struct {
	ViralityScore  int
	EngagementRate float64
}

// ScoreItem computes the 0-100 virality score and engagement rate for a
// single post.
func ScoreItem(views, likes, comments, shares int64, postedAt time.Time, now time.Time) ItemScore {
	rate := EngagementRate(views, likes, comments, shares)
	raw := viewScore(views)*0.4 +
		engagementScore(rate)*0.3 +
		shareScore(shares)*0.2 +
		recencyScore(postedAt, now)*0.1

	return ItemScore{
		ViralityScore:  int(math.Round(raw * 100)),
		EngagementRate: round4(rate),
	}
}

// EngagementRate is interactions over views, 0 when views are unknown.
func EngagementRate(views, likes, comments, shares int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(likes+comments+shares) / float64(views)
}

// viewScore log-scales views so 100K views lands near 0.5 and 1B caps
// at 1.0.
func viewScore(views int64) float64 {
	if views <= 0 {
		return 0
	}
	return math.Min(math.Log10(float64(views))/viewLogCap, 1)
}

// engagementScore caps at a 25% rate to keep micro-accounts from
// dominating.
func engagementScore(rate float64) float64 {
	return math.Min(rate/engRateCap, 1)
}

// shareScore log-scales shares, the strongest organic spread signal.
func shareScore(shares int64) float64 {
	if shares <= 0 {
		return 0
	}
	return math.Min(math.Log10(float64(shares))/shareLogCap, 1)
}

// recencyScore is 1.0 for fresh posts and decays linearly to 0 over two
// weeks.
func recencyScore(postedAt, now time.Time) float64 {
	age := now.Sub(postedAt)
	if age <= 0 {
		return 1
	}
	if age >= recencyWindow {
		return 0
	}
	return 1 - float64(age)/float64(recencyWindow)
}
