// Package content ingests scraped posts and serves the viral feed.
package content

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/modules/engine"
	"github.com/trendscope/core/internal/modules/engine/scoring"
	"github.com/trendscope/core/internal/pkg/pagination"
	"github.com/trendscope/core/internal/pkg/response"
)

type IngestItemDTO struct {
	Platform       string    `json:"platform"`
	PostID         string    `json:"post_id"         binding:"required"`
	AuthorUsername string    `json:"author_username"`
	AuthorName     string    `json:"author_name"`
	Caption        string    `json:"caption"`
	Hashtags       []string  `json:"hashtags"`
	MusicID        *string   `json:"music_id"`
	MusicName      *string   `json:"music_name"`
	MusicAuthor    *string   `json:"music_author"`
	Views          int64     `json:"views"`
	Likes          int64     `json:"likes"`
	Shares         int64     `json:"shares"`
	Comments       int64     `json:"comments"`
	ThumbnailURL   *string   `json:"thumbnail_url"`
	VideoURL       *string   `json:"video_url"`
	PostCreatedAt  time.Time `json:"post_created_at" binding:"required"`
}

type IngestDTO struct {
	BrandID string          `json:"brand_id" binding:"required"`
	Items   []IngestItemDTO `json:"items"    binding:"required,min=1"`
}

// IngestResult reports how a batch landed.
type IngestResult struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Ingest scores and upserts a batch of posts. The unique key is
// brand + platform + post id, so re-scraping the same post refreshes its
// counters instead of duplicating it.
func (s *Service) Ingest(dto *IngestDTO) (*IngestResult, error) {
	result := &IngestResult{Received: len(dto.Items)}
	now := time.Now()

	rows := make([]models.ContentModel, 0, len(dto.Items))
	for _, item := range dto.Items {
		platform := strings.TrimSpace(item.Platform)
		if platform == "" {
			platform = "tiktok"
		}

		score := scoring.ScoreItem(item.Views, item.Likes, item.Comments, item.Shares, item.PostCreatedAt, now)
		virality := score.ViralityScore
		engRate := score.EngagementRate

		rows = append(rows, models.ContentModel{
			BrandID:        dto.BrandID,
			Platform:       platform,
			PostID:         item.PostID,
			AuthorUsername: item.AuthorUsername,
			AuthorName:     item.AuthorName,
			Caption:        item.Caption,
			Hashtags:       normalizeHashtags(item.Hashtags),
			MusicID:        item.MusicID,
			MusicName:      item.MusicName,
			MusicAuthor:    item.MusicAuthor,
			Views:          item.Views,
			Likes:          item.Likes,
			Shares:         item.Shares,
			Comments:       item.Comments,
			ThumbnailURL:   item.ThumbnailURL,
			VideoURL:       item.VideoURL,
			ViralityScore:  &virality,
			EngagementRate: &engRate,
			PostCreatedAt:  item.PostCreatedAt,
			ScrapedAt:      now,
		})
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "brand_id"}, {Name: "platform"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"author_username", "author_name", "caption", "hashtags",
			"music_id", "music_name", "music_author",
			"views", "likes", "shares", "comments",
			"thumbnail_url", "video_url",
			"virality_score", "engagement_rate", "scraped_at", "updated_at",
		}),
	}).Create(&rows).Error
	if err != nil {
		return nil, err
	}
	result.Stored = len(rows)
	return result, nil
}

// ViralFeedQuery filters the viral feed listing.
type ViralFeedQuery struct {
	BrandID  string
	MinViews int64
	Order    string
}

func (s *Service) ViralFeed(q ViralFeedQuery, page pagination.Query) ([]models.ContentModel, response.Pagination, error) {
	tx := s.db.Model(&models.ContentModel{}).
		Where("brand_id = ?", q.BrandID).
		Order(q.Order)
	if q.MinViews > 0 {
		tx = tx.Where("views >= ?", q.MinViews)
	}
	var items []models.ContentModel
	pag, err := pagination.Paginate(tx, page, &items)
	return items, pag, err
}

// FetchRecentContent satisfies the detection pipeline's content boundary.
func (s *Service) FetchRecentContent(ctx context.Context, brandID string, since time.Time) ([]engine.Post, error) {
	var rows []models.ContentModel
	err := s.db.WithContext(ctx).
		Where("brand_id = ? AND post_created_at >= ?", brandID, since).
		Order("post_created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	posts := make([]engine.Post, len(rows))
	for i, row := range rows {
		posts[i] = engine.Post{
			ID:           row.ID,
			AuthorHandle: row.AuthorUsername,
			Caption:      row.Caption,
			Hashtags:     row.Hashtags,
			MusicID:      row.MusicID,
			MusicName:    row.MusicName,
			MusicAuthor:  row.MusicAuthor,
			Views:        row.Views,
			Likes:        row.Likes,
			Comments:     row.Comments,
			Shares:       row.Shares,
			PostedAt:     row.PostCreatedAt,
		}
	}
	return posts, nil
}

func normalizeHashtags(tags []string) models.StringSlice {
	out := make(models.StringSlice, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "#")))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/content", authMW)

	g.POST("/ingest", h.ingest)
	g.GET("/viral", h.viralFeed)
}

func (h *Handler) ingest(c *gin.Context) {
	var dto IngestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.Ingest(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) viralFeed(c *gin.Context) {
	brandID := strings.TrimSpace(c.Query("brand_id"))
	if brandID == "" {
		response.BadRequest(c, "brand_id is required")
		return
	}

	minViews, _ := strconv.ParseInt(c.DefaultQuery("min_views", "0"), 10, 64)
	order := pagination.SortClause(c,
		"virality_score", "views", "likes", "engagement_rate", "post_created_at")

	items, pag, err := h.svc.ViralFeed(ViralFeedQuery{
		BrandID:  brandID,
		MinViews: minViews,
		Order:    order,
	}, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}
