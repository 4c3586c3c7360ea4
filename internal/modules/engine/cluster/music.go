package cluster

import (
	"sort"

	"github.com/trendscope/core/internal/modules/engine"
)

// UnknownAudioName labels audio groups whose posts never carried a
// readable track name.
const UnknownAudioName = "Unknown Audio"

// MusicGroup is a set of posts sharing the same audio track.
type MusicGroup struct {
	MusicID string
	Name    string
	Author  *string
	Posts   []engine.Post
}

// ByMusic groups posts on exact music ID. Posts without a music ID are
// skipped, and groups of one are dropped.
func ByMusic(posts []engine.Post) []MusicGroup {
	groups := make(map[string]*MusicGroup)
	for _, p := range posts {
		if p.MusicID == nil || *p.MusicID == "" {
			continue
		}
		id := *p.MusicID
		g, ok := groups[id]
		if !ok {
			g = &MusicGroup{MusicID: id}
			groups[id] = g
		}
		g.Posts = append(g.Posts, p)
		if g.Name == "" && p.MusicName != nil && *p.MusicName != "" {
			g.Name = *p.MusicName
		}
		if g.Author == nil && p.MusicAuthor != nil && *p.MusicAuthor != "" {
			g.Author = p.MusicAuthor
		}
	}

	result := make([]MusicGroup, 0, len(groups))
	for _, g := range groups {
		if len(g.Posts) < minClusterSize {
			continue
		}
		if g.Name == "" {
			g.Name = UnknownAudioName
		}
		result = append(result, *g)
	}

	sort.Slice(result, func(i, j int) bool {
		if len(result[i].Posts) != len(result[j].Posts) {
			return len(result[i].Posts) > len(result[j].Posts)
		}
		return result[i].MusicID < result[j].MusicID
	})
	return result
}
