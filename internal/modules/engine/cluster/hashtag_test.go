package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendscope/core/internal/modules/engine"
)

func post(id string, tags ...string) engine.Post {
	return engine.Post{
		ID:       id,
		Hashtags: tags,
		PostedAt: time.Now(),
	}
}

func TestByHashtags_SharedVocabulary(t *testing.T) {
	posts := []engine.Post{
		post("a", "grwm", "makeup", "beauty"),
		post("b", "grwm", "makeup", "skincare"),
		post("c", "grwm", "beauty"),
		post("d", "crypto", "bitcoin"),
		post("e", "crypto", "bitcoin"),
	}

	clusters := ByHashtags(posts, 0.3)
	require.Len(t, clusters, 2)

	var grwm, crypto *HashtagCluster
	for i := range clusters {
		for _, tag := range clusters[i].Hashtags {
			switch tag {
			case "grwm":
				grwm = &clusters[i]
			case "crypto":
				crypto = &clusters[i]
			}
		}
	}
	require.NotNil(t, grwm)
	require.NotNil(t, crypto)

	assert.Len(t, grwm.Posts, 3)
	assert.Len(t, crypto.Posts, 2)
	assert.Contains(t, grwm.Name, "#grwm")
}

func TestByHashtags_SingletonTagsIgnored(t *testing.T) {
	// Every tag appears exactly once, so no post has a significant set.
	posts := []engine.Post{
		post("a", "one", "two"),
		post("b", "three", "four"),
	}
	assert.Empty(t, ByHashtags(posts, 0.3))
}

func TestByHashtags_SingletonClustersDropped(t *testing.T) {
	// "shared" is significant but only post c pairs with nothing above
	// the threshold.
	posts := []engine.Post{
		post("a", "fyp", "dance", "viral"),
		post("b", "fyp", "dance", "viral"),
		post("c", "fyp"),
	}

	clusters := ByHashtags(posts, 0.3)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Posts, 3) // 1/3 overlap for c meets 0.3
}

func TestByHashtags_ThresholdExcludes(t *testing.T) {
	posts := []engine.Post{
		post("a", "x", "y", "z", "w"),
		post("b", "x", "y", "z", "w"),
		post("c", "x", "q", "r", "s"),
		post("d", "q", "r", "s"),
	}

	clusters := ByHashtags(posts, 0.5)
	require.Len(t, clusters, 2)
	for _, c := range clusters {
		assert.Len(t, c.Posts, 2)
	}
}

func TestByHashtags_NameUsesTopThreeTags(t *testing.T) {
	posts := []engine.Post{
		post("a", "alpha", "beta", "gamma", "delta"),
		post("b", "alpha", "beta", "gamma", "delta"),
		post("c", "alpha", "beta"),
	}

	clusters := ByHashtags(posts, 0.3)
	require.Len(t, clusters, 1)
	assert.Equal(t, "#alpha #beta #delta", clusters[0].Name)
	assert.Equal(t, []string{"alpha", "beta", "delta", "gamma"}, clusters[0].Hashtags)
}

func TestByHashtags_Deterministic(t *testing.T) {
	posts := []engine.Post{
		post("p3", "a", "b"),
		post("p1", "a", "b"),
		post("p2", "a", "b", "c"),
		post("p4", "c", "a"),
	}

	first := ByHashtags(posts, 0.3)
	for i := 0; i < 5; i++ {
		again := ByHashtags(posts, 0.3)
		assert.Equal(t, first, again)
	}
}

func TestByHashtags_NormalizesTags(t *testing.T) {
	posts := []engine.Post{
		post("a", "#GRWM", "Makeup"),
		post("b", "grwm", "makeup"),
	}

	clusters := ByHashtags(posts, 0.3)
	require.Len(t, clusters, 1)
	assert.Contains(t, clusters[0].Hashtags, "grwm")
}

func TestByHashtags_Empty(t *testing.T) {
	assert.Empty(t, ByHashtags(nil, 0.3))
}
