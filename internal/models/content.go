package models

import "time"

// ContentModel is a scraped social post. Rows are written by the ingest
// pipeline and are read-only to the trend engine.
type ContentModel struct {
	Base
	BrandID        string      `json:"brand_id"        gorm:"index;not null;uniqueIndex:uniq_brand_platform_post"`
	Platform       string      `json:"platform"        gorm:"default:'tiktok';uniqueIndex:uniq_brand_platform_post"`
	PostID         string      `json:"post_id"         gorm:"not null;uniqueIndex:uniq_brand_platform_post"`
	AuthorUsername string      `json:"author_username" gorm:"index"`
	AuthorName     string      `json:"author_name"`
	Caption        string      `json:"caption"         gorm:"type:text"`
	Hashtags       StringSlice `json:"hashtags"        gorm:"type:json;serializer:json"`
	MusicID        *string     `json:"music_id"        gorm:"index"`
	MusicName      *string     `json:"music_name"`
	MusicAuthor    *string     `json:"music_author"`
	Views          int64       `json:"views"           gorm:"default:0"`
	Likes          int64       `json:"likes"           gorm:"default:0"`
	Shares         int64       `json:"shares"          gorm:"default:0"`
	Comments       int64       `json:"comments"        gorm:"default:0"`
	ThumbnailURL   *string     `json:"thumbnail_url"`
	VideoURL       *string     `json:"video_url"`
	ViralityScore  *int        `json:"virality_score"  gorm:"index"`
	EngagementRate *float64    `json:"engagement_rate"`
	PostCreatedAt  time.Time   `json:"post_created_at" gorm:"index;not null"`
	ScrapedAt      time.Time   `json:"scraped_at"`
}

func (ContentModel) TableName() string { return "contents" }
