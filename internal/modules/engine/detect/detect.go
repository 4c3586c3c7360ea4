// Package detect runs one trend detection pass for a brand: fetch the
// content window, cluster it, score and classify every cluster, and
// persist the resulting trends.
package detect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/modules/engine"
	"github.com/trendscope/core/internal/modules/engine/classify"
	"github.com/trendscope/core/internal/modules/engine/cluster"
	"github.com/trendscope/core/internal/modules/engine/scoring"
)

// ErrBrandNotFound aborts a pass before any write happens.
var ErrBrandNotFound = errors.New("brand not found")

// BrandContext is the brand-side input to relevance scoring.
type BrandContext struct {
	ID       string
	Industry string
	Keywords []string
}

// BrandSource resolves brand context.
type BrandSource interface {
	FetchBrandContext(ctx context.Context, brandID string) (*BrandContext, error)
}

// ContentSource provides the trailing content window for a brand.
type ContentSource interface {
	FetchRecentContent(ctx context.Context, brandID string, since time.Time) ([]engine.Post, error)
}

// TrendRecord is the persisted identity a cluster may resolve to.
type TrendRecord struct {
	ID     string
	Status models.TrendStatus
}

// TrendUpsert carries everything the store needs to insert or update one
// trend.
type TrendUpsert struct {
	BrandID           string
	Type              models.TrendType
	Name              string
	Hashtags          []string
	MusicID           *string
	MusicName         *string
	MusicAuthor       *string
	FormatType        string
	FormatLabel       string
	VelocityScore     int
	BreakoutScore     int
	RelevanceScore    int
	Status            models.TrendStatus
	ContentCount      int
	TotalViews        int64
	TotalLikes        int64
	AvgEngagementRate float64
}

// TrendStore is the persistence boundary. FindBySignature matches on
// brand + discriminator + top-hashtag containment, or brand + exact
// music id.
type TrendStore interface {
	FindBySignature(ctx context.Context, brandID string, trendType models.TrendType, topHashtags []string, musicID *string) (*TrendRecord, error)
	Upsert(ctx context.Context, existingID string, trend TrendUpsert) (string, error)
	UpsertLinks(ctx context.Context, trendID string, contentIDs []string, weight float64) error
}

// ProgressFunc receives human-readable status lines at stage boundaries.
type ProgressFunc func(message string)

// Result summarizes one detection pass.
type Result struct {
	TrendsCreated  int      `json:"trends_created"`
	TrendsUpdated  int      `json:"trends_updated"`
	AutoAnalyzeIDs []string `json:"auto_analyze_ids"`
}

// Config tunes the pass. Zero values fall back to sane defaults.
type Config struct {
	JaccardThreshold          float64
	ContentWindowDays         int
	IndustryAvgEngagementRate float64
	BreakoutAutoAnalyze       int
	RelevanceAutoAnalyze      int
	RelevanceHigh             int
}

func (c *Config) applyDefaults() {
	if c.JaccardThreshold <= 0 {
		c.JaccardThreshold = cluster.DefaultJaccardThreshold
	}
	if c.ContentWindowDays <= 0 {
		c.ContentWindowDays = 7
	}
	if c.IndustryAvgEngagementRate <= 0 {
		c.IndustryAvgEngagementRate = scoring.DefaultIndustryAvgEngagementRate
	}
	if c.BreakoutAutoAnalyze <= 0 {
		c.BreakoutAutoAnalyze = 40
	}
	if c.RelevanceAutoAnalyze <= 0 {
		c.RelevanceAutoAnalyze = 30
	}
	if c.RelevanceHigh <= 0 {
		c.RelevanceHigh = 70
	}
}

// Service runs detection passes.
type Service struct {
	brands     BrandSource
	content    ContentSource
	store      TrendStore
	classifier *classify.Classifier
	cfg        Config
	log        *zap.Logger
	now        func() time.Time
}

func NewService(brands BrandSource, content ContentSource, store TrendStore, classifier *classify.Classifier, cfg Config, log *zap.Logger) *Service {
	cfg.applyDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		brands:     brands,
		content:    content,
		store:      store,
		classifier: classifier,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// candidate is one cluster or music group flowing through the scoring
// loop.
type candidate struct {
	trendType   models.TrendType
	name        string
	hashtags    []string
	musicID     *string
	musicName   *string
	musicAuthor *string
	posts       []engine.Post
}

// Run executes a full detection pass for one brand. Brand resolution and
// content fetch failures are fatal; everything downstream is
// cluster-local and recoverable.
func (s *Service) Run(ctx context.Context, brandID string, onProgress ProgressFunc) (*Result, error) {
	emit := onProgress
	if emit == nil {
		emit = func(string) {}
	}

	brand, err := s.brands.FetchBrandContext(ctx, brandID)
	if err != nil {
		return nil, err
	}

	emit("Fetching recent content...")
	now := s.now()
	since := now.AddDate(0, 0, -s.cfg.ContentWindowDays)
	posts, err := s.content.FetchRecentContent(ctx, brandID, since)
	if err != nil {
		return nil, fmt.Errorf("fetch content window: %w", err)
	}
	if len(posts) == 0 {
		emit("No recent content found.")
		return &Result{AutoAnalyzeIDs: []string{}}, nil
	}

	emit(fmt.Sprintf("Found %d posts. Clustering hashtags...", len(posts)))
	hashtagClusters := cluster.ByHashtags(posts, s.cfg.JaccardThreshold)

	emit(fmt.Sprintf("Found %d hashtag clusters. Grouping music...", len(hashtagClusters)))
	musicGroups := cluster.ByMusic(posts)

	candidates := make([]candidate, 0, len(hashtagClusters)+len(musicGroups))
	for _, hc := range hashtagClusters {
		candidates = append(candidates, candidate{
			trendType: models.TrendTypeHashtagCluster,
			name:      hc.Name,
			hashtags:  hc.Hashtags,
			posts:     hc.Posts,
		})
	}
	for _, mg := range musicGroups {
		id := mg.MusicID
		name := mg.Name
		candidates = append(candidates, candidate{
			trendType:   models.TrendTypeMusic,
			name:        mg.Name,
			musicID:     &id,
			musicName:   &name,
			musicAuthor: mg.Author,
			posts:       mg.Posts,
		})
	}

	emit(fmt.Sprintf("Classifying %d candidate trends...", len(candidates)))
	classifications := s.classifyBatch(ctx, candidates)

	emit("Scoring trends...")
	result := &Result{AutoAnalyzeIDs: []string{}}
	for i, cand := range candidates {
		s.processCandidate(ctx, brand, cand, classifications[i], now, result)
	}

	emit(fmt.Sprintf("Done. Created %d, updated %d, %d queued for analysis.",
		result.TrendsCreated, result.TrendsUpdated, len(result.AutoAnalyzeIDs)))
	return result, nil
}

// classifyBatch runs the single batch classification call over every
// candidate of the pass.
func (s *Service) classifyBatch(ctx context.Context, candidates []candidate) []classify.Classification {
	inputs := make([]classify.Input, len(candidates))
	for i, cand := range candidates {
		inputs[i] = classify.Input{
			ClusterID:   fmt.Sprintf("c%d", i),
			Name:        cand.name,
			Hashtags:    cand.hashtags,
			MusicName:   cand.musicName,
			MusicAuthor: cand.musicAuthor,
			Captions:    captionsOf(cand.posts),
		}
	}
	return s.classifier.ClassifyAll(ctx, inputs)
}

func (s *Service) processCandidate(ctx context.Context, brand *BrandContext, cand candidate, cls classify.Classification, now time.Time, result *Result) {
	velocity := scoring.Velocity(cand.posts, now)
	breakout := scoring.Breakout(cand.posts, velocity, s.cfg.IndustryAvgEngagementRate, now)
	// Hashtag clusters carry their significant-tag union; music groups
	// have no union, so their raw member tags stand in.
	relevanceTags := cand.hashtags
	if cand.trendType == models.TrendTypeMusic {
		relevanceTags = allHashtags(cand.posts)
	}
	relevance := scoring.Relevance(relevanceTags, captionsOf(cand.posts), brand.Keywords, brand.Industry)
	agg := scoring.Aggregate(cand.posts)

	existing, err := s.store.FindBySignature(ctx, brand.ID, cand.trendType, topThree(cand.hashtags), cand.musicID)
	if err != nil {
		s.log.Warn("signature lookup failed, skipping cluster",
			zap.String("trend", cand.name), zap.Error(err))
		return
	}

	var previous models.TrendStatus
	var existingID string
	if existing != nil {
		previous = existing.Status
		existingID = existing.ID
	}
	status := scoring.NextStatus(breakout, velocity, previous)

	trendID, err := s.store.Upsert(ctx, existingID, TrendUpsert{
		BrandID:           brand.ID,
		Type:              cand.trendType,
		Name:              cand.name,
		Hashtags:          cand.hashtags,
		MusicID:           cand.musicID,
		MusicName:         cand.musicName,
		MusicAuthor:       cand.musicAuthor,
		FormatType:        cls.FormatType,
		FormatLabel:       cls.FormatLabel,
		VelocityScore:     velocity,
		BreakoutScore:     breakout,
		RelevanceScore:    relevance,
		Status:            status,
		ContentCount:      agg.ContentCount,
		TotalViews:        agg.TotalViews,
		TotalLikes:        agg.TotalLikes,
		AvgEngagementRate: agg.AvgEngagementRate,
	})
	if err != nil {
		s.log.Warn("trend upsert failed, skipping cluster",
			zap.String("trend", cand.name), zap.Error(err))
		return
	}

	if existing != nil {
		result.TrendsUpdated++
	} else {
		result.TrendsCreated++
	}

	if err := s.store.UpsertLinks(ctx, trendID, postIDs(cand.posts), 1.0); err != nil {
		s.log.Warn("trend content link upsert failed",
			zap.String("trend_id", trendID), zap.Error(err))
	}

	if (breakout >= s.cfg.BreakoutAutoAnalyze && relevance >= s.cfg.RelevanceAutoAnalyze) ||
		relevance >= s.cfg.RelevanceHigh {
		result.AutoAnalyzeIDs = append(result.AutoAnalyzeIDs, trendID)
	}
}

func captionsOf(posts []engine.Post) []string {
	captions := make([]string, 0, len(posts))
	for _, p := range posts {
		if p.Caption != "" {
			captions = append(captions, p.Caption)
		}
	}
	return captions
}

func allHashtags(posts []engine.Post) []string {
	var tags []string
	for _, p := range posts {
		tags = append(tags, p.Hashtags...)
	}
	return tags
}

func postIDs(posts []engine.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func topThree(tags []string) []string {
	if len(tags) > 3 {
		return tags[:3]
	}
	return tags
}
