// Package brand manages the brand profiles trends are detected for.
package brand

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/modules/engine/detect"
	"github.com/trendscope/core/internal/pkg/pagination"
	"github.com/trendscope/core/internal/pkg/response"
)

type CreateBrandDTO struct {
	Name         string   `json:"name"          binding:"required"`
	Industry     string   `json:"industry"      binding:"required"`
	Keywords     []string `json:"keywords"`
	LogoURL      *string  `json:"logo_url"`
	PrimaryColor *string  `json:"primary_color"`
	WebsiteURL   *string  `json:"website_url"`
}

type UpdateBrandDTO struct {
	Name         *string   `json:"name"`
	Industry     *string   `json:"industry"`
	Keywords     *[]string `json:"keywords"`
	LogoURL      *string   `json:"logo_url"`
	PrimaryColor *string   `json:"primary_color"`
	WebsiteURL   *string   `json:"website_url"`
	IsActive     *bool     `json:"is_active"`
}

type brandResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Industry     string    `json:"industry"`
	Keywords     []string  `json:"keywords"`
	LogoURL      *string   `json:"logo_url,omitempty"`
	PrimaryColor string    `json:"primary_color"`
	WebsiteURL   *string   `json:"website_url,omitempty"`
	IsActive     bool      `json:"is_active"`
	Created      time.Time `json:"created"`
	Modified     time.Time `json:"modified"`
}

func toResponse(b *models.BrandModel) brandResponse {
	return brandResponse{
		ID: b.ID, Name: b.Name, Slug: b.Slug, Industry: b.Industry,
		Keywords: b.Keywords, LogoURL: b.LogoURL, PrimaryColor: b.PrimaryColor,
		WebsiteURL: b.WebsiteURL, IsActive: b.IsActive,
		Created: b.CreatedAt, Modified: b.UpdatedAt,
	}
}

var errDuplicateSlug = errors.New("a brand with this name already exists")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List(q pagination.Query) ([]models.BrandModel, response.Pagination, error) {
	tx := s.db.Model(&models.BrandModel{}).Order("created_at DESC")
	var items []models.BrandModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.BrandModel, error) {
	var b models.BrandModel
	if err := s.db.First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// ActiveBrands returns brands eligible for scheduled detection.
func (s *Service) ActiveBrands() ([]models.BrandModel, error) {
	var items []models.BrandModel
	err := s.db.Where("is_active = ?", true).Find(&items).Error
	return items, err
}

func (s *Service) Create(dto *CreateBrandDTO) (*models.BrandModel, error) {
	slug := Slugify(dto.Name)

	var count int64
	if err := s.db.Model(&models.BrandModel{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errDuplicateSlug
	}

	b := models.BrandModel{
		Name:     strings.TrimSpace(dto.Name),
		Slug:     slug,
		Industry: dto.Industry,
		Keywords: normalizeKeywords(dto.Keywords),
		LogoURL:  dto.LogoURL,
		IsActive: true,
	}
	if dto.PrimaryColor != nil {
		b.PrimaryColor = *dto.PrimaryColor
	}
	b.WebsiteURL = dto.WebsiteURL

	if err := s.db.Create(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) Update(id string, dto *UpdateBrandDTO) (*models.BrandModel, error) {
	b, err := s.GetByID(id)
	if err != nil || b == nil {
		return b, err
	}

	if dto.Name != nil {
		b.Name = strings.TrimSpace(*dto.Name)
		b.Slug = Slugify(*dto.Name)
	}
	if dto.Industry != nil {
		b.Industry = *dto.Industry
	}
	if dto.Keywords != nil {
		b.Keywords = normalizeKeywords(*dto.Keywords)
	}
	if dto.LogoURL != nil {
		b.LogoURL = dto.LogoURL
	}
	if dto.PrimaryColor != nil {
		b.PrimaryColor = *dto.PrimaryColor
	}
	if dto.WebsiteURL != nil {
		b.WebsiteURL = dto.WebsiteURL
	}
	if dto.IsActive != nil {
		b.IsActive = *dto.IsActive
	}

	if err := s.db.Save(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.BrandModel{}, "id = ?", id).Error
}

// FetchBrandContext satisfies the detection pipeline's brand boundary.
func (s *Service) FetchBrandContext(ctx context.Context, brandID string) (*detect.BrandContext, error) {
	var b models.BrandModel
	if err := s.db.WithContext(ctx).First(&b, "id = ?", brandID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, detect.ErrBrandNotFound
		}
		return nil, err
	}
	return &detect.BrandContext{
		ID:       b.ID,
		Industry: b.Industry,
		Keywords: b.Keywords,
	}, nil
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses runs of non-alphanumerics into
// single dashes.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func normalizeKeywords(keywords []string) models.StringSlice {
	out := make(models.StringSlice, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/brands", authMW)

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]brandResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

func (h *Handler) get(c *gin.Context) {
	b, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if b == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(b))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateBrandDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	b, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, errDuplicateSlug) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(b))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateBrandDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	b, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if b == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(b))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
