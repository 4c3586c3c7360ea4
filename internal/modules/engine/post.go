// Package engine holds the trend detection pipeline: clustering,
// caption analysis, scoring and format classification over a window of
// social posts.
package engine

import "time"

// Post is the normalized view of a social post the pipeline operates on.
// Hashtags are expected lowercase without the leading '#'.
type Post struct {
	ID           string
	AuthorHandle string
	Caption      string
	Hashtags     []string
	MusicID      *string
	MusicName    *string
	MusicAuthor  *string
	Views        int64
	Likes        int64
	Comments     int64
	Shares       int64
	PostedAt     time.Time
}

// WeightedEngagement weights shares and comments above likes, since they
// are stronger spread signals.
func (p Post) WeightedEngagement() float64 {
	return float64(p.Likes) + 2*float64(p.Shares) + 3*float64(p.Comments)
}
