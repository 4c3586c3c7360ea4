package models

// BrandModel is a tracked brand: the unit of scoping for content and trends.
type BrandModel struct {
	Base
	Name         string      `json:"name"          gorm:"not null"`
	Slug         string      `json:"slug"          gorm:"uniqueIndex;not null"`
	Industry     string      `json:"industry"      gorm:"index"`
	Keywords     StringSlice `json:"keywords"      gorm:"type:json;serializer:json"`
	LogoURL      *string     `json:"logo_url"`
	PrimaryColor string      `json:"primary_color" gorm:"default:'#14B8A6'"`
	WebsiteURL   *string     `json:"website_url"`
	IsActive     bool        `json:"is_active"     gorm:"default:true;index"`
}

func (BrandModel) TableName() string { return "brands" }
