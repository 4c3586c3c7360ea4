package detect

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/modules/engine"
	"github.com/trendscope/core/internal/modules/engine/classify"
)

type fakeBrands struct {
	brands map[string]*BrandContext
}

func (f *fakeBrands) FetchBrandContext(_ context.Context, brandID string) (*BrandContext, error) {
	b, ok := f.brands[brandID]
	if !ok {
		return nil, ErrBrandNotFound
	}
	return b, nil
}

type fakeContent struct {
	posts []engine.Post
	err   error
}

func (f *fakeContent) FetchRecentContent(_ context.Context, _ string, _ time.Time) ([]engine.Post, error) {
	return f.posts, f.err
}

type fakeStore struct {
	existing   map[string]*TrendRecord // keyed by music id or first hashtag
	upserts    []TrendUpsert
	links      map[string][]string
	upsertErr  error
	linkErr    error
	nextID     int
	lookupErr  error
	lookupKeys []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		existing: make(map[string]*TrendRecord),
		links:    make(map[string][]string),
	}
}

func (f *fakeStore) FindBySignature(_ context.Context, _ string, _ models.TrendType, topHashtags []string, musicID *string) (*TrendRecord, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	key := ""
	if musicID != nil {
		key = *musicID
	} else if len(topHashtags) > 0 {
		key = topHashtags[0]
	}
	f.lookupKeys = append(f.lookupKeys, key)
	return f.existing[key], nil
}

func (f *fakeStore) Upsert(_ context.Context, existingID string, trend TrendUpsert) (string, error) {
	if f.upsertErr != nil {
		return "", f.upsertErr
	}
	f.upserts = append(f.upserts, trend)
	if existingID != "" {
		return existingID, nil
	}
	f.nextID++
	return fmt.Sprintf("trend-%d", f.nextID), nil
}

func (f *fakeStore) UpsertLinks(_ context.Context, trendID string, contentIDs []string, _ float64) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.links[trendID] = contentIDs
	return nil
}

func testService(brands *fakeBrands, content *fakeContent, store *fakeStore, cfg Config) *Service {
	return NewService(brands, content, store, classify.New(nil, nil), cfg, nil)
}

func fitnessBrand() *fakeBrands {
	return &fakeBrands{brands: map[string]*BrandContext{
		"brand-1": {ID: "brand-1", Industry: "Fitness & Wellness", Keywords: []string{"fitness", "workout"}},
	}}
}

// windowPosts builds the end-to-end fixture: one tight hashtag cluster
// of five posts from distinct authors, three posted within 24 hours.
func windowPosts(now time.Time) []engine.Post {
	posts := make([]engine.Post, 5)
	for i := range posts {
		age := 2 * time.Hour
		if i >= 3 {
			age = 30 * time.Hour
		}
		posts[i] = engine.Post{
			ID:           fmt.Sprintf("p%d", i),
			AuthorHandle: fmt.Sprintf("creator%d", i),
			Caption:      "new workout routine, wait for it",
			Hashtags:     []string{"fitness", "workout", "gymtok"},
			Views:        100_000,
			Likes:        5_000,
			PostedAt:     now.Add(-age),
		}
	}
	return posts
}

func TestRun_BrandNotFoundIsFatal(t *testing.T) {
	store := newFakeStore()
	svc := testService(fitnessBrand(), &fakeContent{}, store, Config{})

	_, err := svc.Run(context.Background(), "missing", nil)
	require.ErrorIs(t, err, ErrBrandNotFound)
	assert.Empty(t, store.upserts)
}

func TestRun_ContentFetchErrorIsFatal(t *testing.T) {
	store := newFakeStore()
	svc := testService(fitnessBrand(), &fakeContent{err: errors.New("db down")}, store, Config{})

	_, err := svc.Run(context.Background(), "brand-1", nil)
	require.Error(t, err)
	assert.Empty(t, store.upserts)
}

func TestRun_EmptyWindowIsNotAnError(t *testing.T) {
	svc := testService(fitnessBrand(), &fakeContent{}, newFakeStore(), Config{})

	var messages []string
	result, err := svc.Run(context.Background(), "brand-1", func(m string) { messages = append(messages, m) })
	require.NoError(t, err)
	assert.Equal(t, 0, result.TrendsCreated)
	assert.Equal(t, 0, result.TrendsUpdated)
	assert.Empty(t, result.AutoAnalyzeIDs)
	assert.Contains(t, messages, "No recent content found.")
}

func TestRun_EndToEnd(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	svc := testService(fitnessBrand(), &fakeContent{posts: windowPosts(now)}, store, Config{})

	result, err := svc.Run(context.Background(), "brand-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TrendsCreated)
	assert.Equal(t, 0, result.TrendsUpdated)

	require.Len(t, store.upserts, 1)
	up := store.upserts[0]
	assert.Equal(t, models.TrendTypeHashtagCluster, up.Type)
	assert.NotEqual(t, models.TrendExpired, up.Status)
	assert.GreaterOrEqual(t, up.VelocityScore, 0)
	assert.LessOrEqual(t, up.VelocityScore, 100)
	assert.GreaterOrEqual(t, up.BreakoutScore, 0)
	assert.LessOrEqual(t, up.BreakoutScore, 100)
	assert.Equal(t, 5, up.ContentCount)
	assert.Equal(t, int64(500_000), up.TotalViews)

	// Full keyword overlap on a matching industry pushes relevance past
	// the high threshold, so the trend queues for analysis regardless of
	// breakout.
	assert.GreaterOrEqual(t, up.RelevanceScore, 70)
	require.Len(t, result.AutoAnalyzeIDs, 1)
	assert.Len(t, store.links["trend-1"], 5)
}

func TestRun_ExistingTrendIsUpdatedWithHysteresis(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	// Signature keyed on the cluster's top hashtag.
	store.existing["fitness"] = &TrendRecord{ID: "trend-old", Status: models.TrendActive}

	posts := []engine.Post{
		// Two stale low-engagement posts so scores collapse.
		{ID: "a", AuthorHandle: "u", Hashtags: []string{"fitness", "workout"}, PostedAt: now.Add(-6 * 24 * time.Hour)},
		{ID: "b", AuthorHandle: "u", Hashtags: []string{"fitness", "workout"}, PostedAt: now.Add(-6 * 24 * time.Hour)},
	}
	svc := testService(fitnessBrand(), &fakeContent{posts: posts}, store, Config{})

	result, err := svc.Run(context.Background(), "brand-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TrendsCreated)
	assert.Equal(t, 1, result.TrendsUpdated)

	require.Len(t, store.upserts, 1)
	assert.Equal(t, models.TrendDeclining, store.upserts[0].Status)
	assert.Len(t, store.links["trend-old"], 2)
}

func TestRun_UpsertFailureSkipsCluster(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.upsertErr = errors.New("deadlock")
	svc := testService(fitnessBrand(), &fakeContent{posts: windowPosts(now)}, store, Config{})

	result, err := svc.Run(context.Background(), "brand-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TrendsCreated)
	assert.Equal(t, 0, result.TrendsUpdated)
	assert.Empty(t, result.AutoAnalyzeIDs)
}

func TestRun_LinkFailureDoesNotAbort(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.linkErr = errors.New("constraint")
	svc := testService(fitnessBrand(), &fakeContent{posts: windowPosts(now)}, store, Config{})

	result, err := svc.Run(context.Background(), "brand-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TrendsCreated)
}

func TestRun_MusicGroupsBecomeTrends(t *testing.T) {
	now := time.Now()
	track := "song-1"
	name := "Gym Anthem"
	posts := []engine.Post{
		{ID: "a", AuthorHandle: "u1", MusicID: &track, MusicName: &name, Views: 1000, Likes: 50, PostedAt: now.Add(-2 * time.Hour)},
		{ID: "b", AuthorHandle: "u2", MusicID: &track, Views: 2000, Likes: 80, PostedAt: now.Add(-3 * time.Hour)},
	}
	store := newFakeStore()
	svc := testService(fitnessBrand(), &fakeContent{posts: posts}, store, Config{})

	result, err := svc.Run(context.Background(), "brand-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TrendsCreated)

	require.Len(t, store.upserts, 1)
	up := store.upserts[0]
	assert.Equal(t, models.TrendTypeMusic, up.Type)
	require.NotNil(t, up.MusicID)
	assert.Equal(t, "song-1", *up.MusicID)
	assert.Equal(t, "Gym Anthem", up.Name)
}

func TestRun_RelevanceScoresClusterTagUnion(t *testing.T) {
	now := time.Now()
	// "padel" rides along on a single post, so it never enters the
	// cluster's significant-tag union and must not earn overlap credit.
	posts := []engine.Post{
		{ID: "a", AuthorHandle: "u1", Hashtags: []string{"morningroutine", "wellness", "padel"}, Views: 1000, PostedAt: now.Add(-2 * time.Hour)},
		{ID: "b", AuthorHandle: "u2", Hashtags: []string{"morningroutine", "wellness"}, Views: 1000, PostedAt: now.Add(-3 * time.Hour)},
		{ID: "c", AuthorHandle: "u3", Hashtags: []string{"morningroutine", "wellness"}, Views: 1000, PostedAt: now.Add(-4 * time.Hour)},
	}
	brands := &fakeBrands{brands: map[string]*BrandContext{
		"brand-1": {ID: "brand-1", Industry: "", Keywords: []string{"padel"}},
	}}
	store := newFakeStore()
	svc := testService(brands, &fakeContent{posts: posts}, store, Config{})

	_, err := svc.Run(context.Background(), "brand-1", nil)
	require.NoError(t, err)

	require.Len(t, store.upserts, 1)
	up := store.upserts[0]
	assert.Equal(t, []string{"morningroutine", "wellness"}, up.Hashtags)
	assert.Equal(t, 0, up.RelevanceScore)
}

func TestRun_SignatureLookupErrorSkipsCluster(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.lookupErr = errors.New("timeout")
	svc := testService(fitnessBrand(), &fakeContent{posts: windowPosts(now)}, store, Config{})

	result, err := svc.Run(context.Background(), "brand-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TrendsCreated)
}
