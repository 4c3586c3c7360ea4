// Package scoring computes velocity, breakout, relevance and virality
// scores plus the trend status transitions.
package scoring

import (
	"math"
	"time"

	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/modules/engine"
)

// DefaultIndustryAvgEngagementRate anchors the breakout engagement
// component when callers have no better estimate.
const DefaultIndustryAvgEngagementRate = 0.05

// Velocity measures short-term engagement acceleration on a 0-100 scale.
// Recent engagement growth dominates, new-post share and raw reach add
// smaller bonuses.
func Velocity(posts []engine.Post, now time.Time) int {
	if len(posts) == 0 {
		return 0
	}

	var engLast24, engPrior24 float64
	var postsLast24 int
	var totalViews int64
	for _, p := range posts {
		age := now.Sub(p.PostedAt)
		eng := p.WeightedEngagement()
		switch {
		case age <= 24*time.Hour:
			engLast24 += eng
			postsLast24++
		case age <= 48*time.Hour:
			engPrior24 += eng
		}
		totalViews += p.Views
	}

	var growthRatio float64
	if engPrior24 > 0 {
		growthRatio = (engLast24/engPrior24 - 1) * 50
	} else if engLast24 > 0 {
		growthRatio = 50
	}

	newPostRatio := float64(postsLast24) / float64(len(posts)) * 30

	var viewBonus float64
	if totalViews > 0 {
		viewBonus = math.Log10(float64(totalViews)) * 2
	}

	return clampScore(growthRatio + newPostRatio + viewBonus)
}

// Breakout blends velocity with engagement rate against the industry
// average, creator diversity and recency, on a 0-100 scale.
func Breakout(posts []engine.Post, velocity int, industryAvgEngRate float64, now time.Time) int {
	if len(posts) == 0 {
		return 0
	}
	if industryAvgEngRate <= 0 {
		industryAvgEngRate = DefaultIndustryAvgEngagementRate
	}

	var rateSum float64
	authors := make(map[string]struct{})
	earliest := posts[0].PostedAt
	for _, p := range posts {
		if p.Views > 0 {
			rateSum += p.WeightedEngagement() / float64(p.Views)
		}
		authors[p.AuthorHandle] = struct{}{}
		if p.PostedAt.Before(earliest) {
			earliest = p.PostedAt
		}
	}
	avgEngRate := rateSum / float64(len(posts))

	engComponent := avgEngRate / industryAvgEngRate * 25
	diversity := float64(len(authors)) / float64(len(posts)) * 20
	hoursSinceEarliest := now.Sub(earliest).Hours()
	recency := math.Max(0, 1-hoursSinceEarliest/48) * 20

	return clampScore(0.35*float64(velocity) + engComponent + diversity + recency)
}

// NextStatus advances the trend lifecycle. It is a pure function of the
// two scores and the previous label; hysteresis keeps once-hot trends in
// declining instead of snapping back to emerging or expired.
func NextStatus(breakout, velocity int, previous models.TrendStatus) models.TrendStatus {
	switch {
	case breakout >= 75 && velocity >= 60:
		return models.TrendPeaking
	case breakout >= 50 && velocity >= 40:
		return models.TrendActive
	case breakout >= 25 && velocity >= 20:
		return models.TrendEmerging
	}
	if previous == models.TrendPeaking || previous == models.TrendActive {
		return models.TrendDeclining
	}
	if breakout < 15 && velocity < 10 {
		return models.TrendExpired
	}
	if previous == "" {
		return models.TrendEmerging
	}
	return previous
}

// Aggregates summarizes the engagement of a cluster's posts.
type Aggregates struct {
	ContentCount      int
	TotalViews        int64
	TotalLikes        int64
	AvgEngagementRate float64
}

// Aggregate computes content count, summed reach and the mean per-post
// engagement rate rounded to four decimals.
func Aggregate(posts []engine.Post) Aggregates {
	agg := Aggregates{ContentCount: len(posts)}
	if len(posts) == 0 {
		return agg
	}

	var rateSum float64
	for _, p := range posts {
		agg.TotalViews += p.Views
		agg.TotalLikes += p.Likes
		if p.Views > 0 {
			rateSum += p.WeightedEngagement() / float64(p.Views)
		}
	}
	agg.AvgEngagementRate = round4(rateSum / float64(len(posts)))
	return agg
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
