// Package cluster groups posts into candidate trends, either by shared
// hashtag vocabulary or by shared audio.
package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/trendscope/core/internal/modules/engine"
)

// DefaultJaccardThreshold is the minimum tag-set overlap for a post to
// join an existing cluster.
const DefaultJaccardThreshold = 0.3

// minClusterSize drops singleton groups, which carry no trend signal.
const minClusterSize = 2

// HashtagCluster is a set of posts sharing hashtag vocabulary.
type HashtagCluster struct {
	Name     string
	Hashtags []string
	Posts    []engine.Post
}

type candidate struct {
	post engine.Post
	tags map[string]struct{}
}

// ByHashtags groups posts by overlapping hashtag sets. Only tags that
// appear on at least two posts participate; posts left with no such tag
// are ignored. The result is deterministic for a given input.
func ByHashtags(posts []engine.Post, threshold float64) []HashtagCluster {
	if threshold <= 0 {
		threshold = DefaultJaccardThreshold
	}

	freq := make(map[string]int)
	for _, p := range posts {
		seen := make(map[string]struct{}, len(p.Hashtags))
		for _, tag := range p.Hashtags {
			tag = normalizeTag(tag)
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			freq[tag]++
		}
	}

	candidates := make([]candidate, 0, len(posts))
	for _, p := range posts {
		sig := make(map[string]struct{})
		for _, tag := range p.Hashtags {
			tag = normalizeTag(tag)
			if freq[tag] >= 2 {
				sig[tag] = struct{}{}
			}
		}
		if len(sig) == 0 {
			continue
		}
		candidates = append(candidates, candidate{post: p, tags: sig})
	}

	// Larger tag sets seed first so clusters form around the densest
	// posts. ID tiebreak keeps runs reproducible.
	sort.SliceStable(candidates, func(i, j int) bool {
		if len(candidates[i].tags) != len(candidates[j].tags) {
			return len(candidates[i].tags) > len(candidates[j].tags)
		}
		return candidates[i].post.ID < candidates[j].post.ID
	})

	assigned := make([]bool, len(candidates))
	var clusters []HashtagCluster

	for i := range candidates {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		members := []engine.Post{candidates[i].post}
		clusterTags := make(map[string]struct{}, len(candidates[i].tags))
		for tag := range candidates[i].tags {
			clusterTags[tag] = struct{}{}
		}

		for j := i + 1; j < len(candidates); j++ {
			if assigned[j] {
				continue
			}
			if jaccard(clusterTags, candidates[j].tags) >= threshold {
				assigned[j] = true
				members = append(members, candidates[j].post)
				for tag := range candidates[j].tags {
					clusterTags[tag] = struct{}{}
				}
			}
		}

		if len(members) < minClusterSize {
			continue
		}

		ranked := rankTags(members, clusterTags)
		clusters = append(clusters, HashtagCluster{
			Name:     clusterName(ranked),
			Hashtags: ranked,
			Posts:    members,
		})
	}

	return clusters
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tag := range a {
		if _, ok := b[tag]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// rankTags orders the cluster's tag union by member frequency,
// alphabetical on ties. The leading three form the display name and the
// signature prefix.
func rankTags(members []engine.Post, clusterTags map[string]struct{}) []string {
	counts := make(map[string]int)
	for _, p := range members {
		for _, tag := range p.Hashtags {
			tag = normalizeTag(tag)
			if _, ok := clusterTags[tag]; ok {
				counts[tag]++
			}
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	return tags
}

func clusterName(rankedTags []string) string {
	if len(rankedTags) > 3 {
		rankedTags = rankedTags[:3]
	}
	parts := make([]string, len(rankedTags))
	for i, tag := range rankedTags {
		parts[i] = fmt.Sprintf("#%s", tag)
	}
	return strings.Join(parts, " ")
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "#")))
}
