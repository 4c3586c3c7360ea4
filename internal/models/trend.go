package models

import "time"

// TrendType discriminates how a trend's members were grouped.
type TrendType string

const (
	TrendTypeHashtagCluster TrendType = "hashtag_cluster"
	TrendTypeMusic          TrendType = "music"
)

// TrendStatus is the lifecycle state of a trend.
type TrendStatus string

const (
	TrendEmerging  TrendStatus = "emerging"
	TrendActive    TrendStatus = "active"
	TrendPeaking   TrendStatus = "peaking"
	TrendDeclining TrendStatus = "declining"
	TrendExpired   TrendStatus = "expired"
)

// TrendModel is a detected, lifecycle-tracked trend for a brand.
// Created on first detection of a cluster signature and updated in place on
// every later pass that re-detects the same signature. Never deleted by the
// detection engine.
type TrendModel struct {
	Base
	BrandID           string      `json:"brand_id"            gorm:"index;not null"`
	Name              string      `json:"name"                gorm:"not null"`
	Type              TrendType   `json:"type"                gorm:"index;not null"`
	HashtagCluster    StringSlice `json:"hashtag_cluster"     gorm:"type:json;serializer:json"`
	MusicID           *string     `json:"music_id"            gorm:"index"`
	MusicName         *string     `json:"music_name"`
	MusicAuthor       *string     `json:"music_author"`
	FormatType        *string     `json:"format_type"`
	FormatLabel       *string     `json:"format_label"`
	VelocityScore     int         `json:"velocity_score"      gorm:"default:0;index"`
	BreakoutScore     int         `json:"breakout_score"      gorm:"default:0;index"`
	RelevanceScore    int         `json:"relevance_score"     gorm:"default:0"`
	Category          *string     `json:"category"`
	ContentCount      int         `json:"content_count"       gorm:"default:0"`
	TotalViews        int64       `json:"total_views"         gorm:"default:0"`
	TotalLikes        int64       `json:"total_likes"         gorm:"default:0"`
	AvgEngagementRate float64     `json:"avg_engagement_rate" gorm:"default:0"`
	Status            TrendStatus `json:"status"              gorm:"default:'emerging';index"`
	FirstSeen         time.Time   `json:"first_seen"`
}

func (TrendModel) TableName() string { return "trends" }

// TrendContentModel links a trend to one of its member posts.
type TrendContentModel struct {
	Base
	TrendID   string  `json:"trend_id"   gorm:"not null;uniqueIndex:uniq_trend_content"`
	ContentID string  `json:"content_id" gorm:"not null;uniqueIndex:uniq_trend_content"`
	Relevance float64 `json:"relevance"  gorm:"default:1"`
}

func (TrendContentModel) TableName() string { return "trend_contents" }

// TrendReportModel stores the deep-analysis content brief for a trend.
type TrendReportModel struct {
	Base
	TrendID        string      `json:"trend_id"        gorm:"index;not null"`
	BrandID        string      `json:"brand_id"        gorm:"index;not null"`
	WhyTrending    string      `json:"why_trending"    gorm:"type:text"`
	HowToUse       string      `json:"how_to_use"      gorm:"type:text"`
	RelevanceScore int         `json:"relevance_score" gorm:"default:0"`
	TalkingPoints  StringSlice `json:"talking_points"  gorm:"type:json;serializer:json"`
	ContentAngles  StringSlice `json:"content_angles"  gorm:"type:json;serializer:json"`
	RiskNotes      *string     `json:"risk_notes"      gorm:"type:text"`
	ModelUsed      string      `json:"model_used"`
}

func (TrendReportModel) TableName() string { return "trend_reports" }
