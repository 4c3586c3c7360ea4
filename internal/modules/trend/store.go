package trend

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/modules/engine/detect"
)

// Store is the gorm-backed persistence boundary of the detection
// pipeline.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// FindBySignature matches a fresh cluster to a persisted trend: same
// brand and discriminator plus either the top hashtags contained in the
// stored cluster, or the exact music id.
func (s *Store) FindBySignature(ctx context.Context, brandID string, trendType models.TrendType, topHashtags []string, musicID *string) (*detect.TrendRecord, error) {
	tx := s.db.WithContext(ctx).
		Model(&models.TrendModel{}).
		Where("brand_id = ? AND type = ?", brandID, trendType)

	switch trendType {
	case models.TrendTypeMusic:
		if musicID == nil {
			return nil, nil
		}
		tx = tx.Where("music_id = ?", *musicID)
	default:
		if len(topHashtags) == 0 {
			return nil, nil
		}
		sig, err := json.Marshal(topHashtags)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("JSON_CONTAINS(hashtag_cluster, ?)", string(sig))
	}

	var t models.TrendModel
	if err := tx.Order("updated_at DESC").First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detect.TrendRecord{ID: t.ID, Status: t.Status}, nil
}

// Upsert updates the matched trend in place or inserts a new one,
// returning the trend id. FirstSeen and Category survive updates.
func (s *Store) Upsert(ctx context.Context, existingID string, t detect.TrendUpsert) (string, error) {
	row := models.TrendModel{
		BrandID:           t.BrandID,
		Name:              t.Name,
		Type:              t.Type,
		HashtagCluster:    models.StringSlice(t.Hashtags),
		MusicID:           t.MusicID,
		MusicName:         t.MusicName,
		MusicAuthor:       t.MusicAuthor,
		VelocityScore:     t.VelocityScore,
		BreakoutScore:     t.BreakoutScore,
		RelevanceScore:    t.RelevanceScore,
		ContentCount:      t.ContentCount,
		TotalViews:        t.TotalViews,
		TotalLikes:        t.TotalLikes,
		AvgEngagementRate: t.AvgEngagementRate,
		Status:            t.Status,
	}
	if t.FormatType != "" {
		row.FormatType = &t.FormatType
	}
	if t.FormatLabel != "" {
		row.FormatLabel = &t.FormatLabel
	}

	if existingID == "" {
		row.FirstSeen = time.Now()
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return "", err
		}
		return row.ID, nil
	}

	err := s.db.WithContext(ctx).
		Model(&models.TrendModel{}).
		Where("id = ?", existingID).
		Updates(map[string]interface{}{
			"name":                row.Name,
			"hashtag_cluster":     row.HashtagCluster,
			"music_id":            row.MusicID,
			"music_name":          row.MusicName,
			"music_author":        row.MusicAuthor,
			"format_type":         row.FormatType,
			"format_label":        row.FormatLabel,
			"velocity_score":      row.VelocityScore,
			"breakout_score":      row.BreakoutScore,
			"relevance_score":     row.RelevanceScore,
			"content_count":       row.ContentCount,
			"total_views":         row.TotalViews,
			"total_likes":         row.TotalLikes,
			"avg_engagement_rate": row.AvgEngagementRate,
			"status":              row.Status,
		}).Error
	if err != nil {
		return "", err
	}
	return existingID, nil
}

// UpsertLinks idempotently links member posts to a trend.
func (s *Store) UpsertLinks(ctx context.Context, trendID string, contentIDs []string, weight float64) error {
	if len(contentIDs) == 0 {
		return nil
	}

	links := make([]models.TrendContentModel, len(contentIDs))
	for i, contentID := range contentIDs {
		links[i] = models.TrendContentModel{
			TrendID:   trendID,
			ContentID: contentID,
			Relevance: weight,
		}
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trend_id"}, {Name: "content_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"relevance", "updated_at"}),
	}).Create(&links).Error
}
