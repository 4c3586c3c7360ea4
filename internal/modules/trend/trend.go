// Package trend exposes detected trends: listing, detail, reports, the
// detection trigger, and the deep-analysis trigger.
package trend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/modules/engine/detect"
	"github.com/trendscope/core/internal/pkg/pagination"
	"github.com/trendscope/core/internal/pkg/response"
)

// detectLocker serializes detection passes per brand. Satisfied by the
// redis client wrapper.
type detectLocker interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

const detectLockTTL = 15 * time.Minute

func detectLockKey(brandID string) string { return "ts:detect:lock:" + brandID }

type ListQuery struct {
	BrandID string
	Status  string
	Type    string
}

type DetectDTO struct {
	BrandID string `json:"brand_id" binding:"required"`
}

type trendResponse struct {
	ID                string   `json:"id"`
	BrandID           string   `json:"brand_id"`
	Name              string   `json:"name"`
	Type              string   `json:"type"`
	HashtagCluster    []string `json:"hashtag_cluster"`
	MusicID           *string  `json:"music_id,omitempty"`
	MusicName         *string  `json:"music_name,omitempty"`
	MusicAuthor       *string  `json:"music_author,omitempty"`
	FormatType        *string  `json:"format_type,omitempty"`
	FormatLabel       *string  `json:"format_label,omitempty"`
	VelocityScore     int      `json:"velocity_score"`
	BreakoutScore     int      `json:"breakout_score"`
	RelevanceScore    int      `json:"relevance_score"`
	Category          *string  `json:"category,omitempty"`
	ContentCount      int      `json:"content_count"`
	TotalViews        int64    `json:"total_views"`
	TotalLikes        int64    `json:"total_likes"`
	AvgEngagementRate float64  `json:"avg_engagement_rate"`
	Status            string   `json:"status"`
	FirstSeen         string   `json:"first_seen"`
	Modified          string   `json:"modified"`
}

func toResponse(t *models.TrendModel) trendResponse {
	return trendResponse{
		ID: t.ID, BrandID: t.BrandID, Name: t.Name, Type: string(t.Type),
		HashtagCluster: t.HashtagCluster,
		MusicID:        t.MusicID, MusicName: t.MusicName, MusicAuthor: t.MusicAuthor,
		FormatType: t.FormatType, FormatLabel: t.FormatLabel,
		VelocityScore: t.VelocityScore, BreakoutScore: t.BreakoutScore,
		RelevanceScore: t.RelevanceScore, Category: t.Category,
		ContentCount: t.ContentCount, TotalViews: t.TotalViews, TotalLikes: t.TotalLikes,
		AvgEngagementRate: t.AvgEngagementRate, Status: string(t.Status),
		FirstSeen: t.FirstSeen.Format(time.RFC3339),
		Modified:  t.UpdatedAt.Format(time.RFC3339),
	}
}

type Service struct {
	db       *gorm.DB
	detector *detect.Service
	analyzer *Analyzer
	locks    detectLocker
	log      *zap.Logger
}

func NewService(db *gorm.DB, detector *detect.Service, analyzer *Analyzer, locks detectLocker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, detector: detector, analyzer: analyzer, locks: locks, log: logger}
}

func (s *Service) List(q pagination.Query, filter ListQuery, order string) ([]models.TrendModel, response.Pagination, error) {
	tx := s.db.Model(&models.TrendModel{})
	if filter.BrandID != "" {
		tx = tx.Where("brand_id = ?", filter.BrandID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		tx = tx.Where("type = ?", filter.Type)
	}
	tx = tx.Order(order)

	var items []models.TrendModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.TrendModel, error) {
	var t models.TrendModel
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// LinkedContent returns the member posts of a trend, most viral first.
func (s *Service) LinkedContent(trendID string) ([]models.ContentModel, error) {
	var rows []models.ContentModel
	err := s.db.
		Joins("JOIN trend_contents ON trend_contents.content_id = contents.id").
		Where("trend_contents.trend_id = ?", trendID).
		Order("contents.virality_score DESC").
		Limit(50).
		Find(&rows).Error
	return rows, err
}

// GetReport returns the latest report for a trend, or nil when none
// has been generated yet.
func (s *Service) GetReport(trendID string) (*models.TrendReportModel, error) {
	var r models.TrendReportModel
	err := s.db.Where("trend_id = ?", trendID).Order("created_at DESC").First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/trends", authMW)

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/report", h.report)
	g.POST("/detect", h.detect)
	g.POST("/:id/analyze", h.analyze)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	filter := ListQuery{
		BrandID: c.Query("brand_id"),
		Status:  c.Query("status"),
		Type:    c.Query("type"),
	}
	order := pagination.SortClause(c,
		"breakout_score", "velocity_score", "relevance_score", "first_seen", "updated_at")

	items, pag, err := h.svc.List(q, filter, order)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]trendResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c)
		return
	}
	contents, err := h.svc.LinkedContent(t.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := toResponse(t)
	c.JSON(200, gin.H{"trend": out, "contents": contents})
}

func (h *Handler) report(c *gin.Context) {
	t, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c)
		return
	}
	r, err := h.svc.GetReport(t.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if r == nil {
		response.NotFoundMsg(c, "no report for this trend yet")
		return
	}
	response.OK(c, r)
}

// detect runs a detection pass and streams progress over SSE.
func (h *Handler) detect(c *gin.Context) {
	var dto DetectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if h.svc.locks != nil {
		acquired, err := h.svc.locks.SetNX(c.Request.Context(), detectLockKey(dto.BrandID), 1, detectLockTTL)
		if err != nil {
			h.svc.log.Warn("detection lock unavailable, proceeding without it",
				zap.String("brand_id", dto.BrandID), zap.Error(err))
		} else if !acquired {
			response.Conflict(c, "a detection pass is already running for this brand")
			return
		} else {
			// Release on a fresh context: the request context dies with
			// the stream when the client disconnects.
			defer func() {
				if err := h.svc.locks.Del(context.Background(), detectLockKey(dto.BrandID)); err != nil {
					h.svc.log.Warn("detection lock release failed",
						zap.String("brand_id", dto.BrandID), zap.Error(err))
				}
			}()
		}
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(200)

	sendEvent := func(eventType string, data string) {
		fmt.Fprintf(c.Writer, "data: %s\n\n", fmt.Sprintf(`{"type":%q,"data":%s}`, eventType, data))
		c.Writer.Flush()
	}
	sendProgress := func(message string) {
		msg, _ := json.Marshal(message)
		sendEvent("progress", string(msg))
	}

	result, err := h.svc.detector.Run(c.Request.Context(), dto.BrandID, sendProgress)
	if err != nil {
		msg, _ := json.Marshal(err.Error())
		sendEvent("error", string(msg))
		return
	}

	queued := h.queueAutoAnalysis(c, result, sendProgress)

	payload, _ := json.Marshal(gin.H{
		"trends_created":  result.TrendsCreated,
		"trends_updated":  result.TrendsUpdated,
		"analyses_queued": queued,
	})
	sendEvent("result", string(payload))
}

func (h *Handler) queueAutoAnalysis(c *gin.Context, result *detect.Result, sendProgress func(string)) int {
	if h.svc.analyzer == nil || !h.svc.analyzer.Enabled() || len(result.AutoAnalyzeIDs) == 0 {
		return 0
	}
	queued := 0
	for _, id := range result.AutoAnalyzeIDs {
		if _, err := h.svc.analyzer.Queue(c.Request.Context(), id); err != nil {
			h.svc.log.Warn("failed to queue auto analysis", zap.String("trend_id", id), zap.Error(err))
			continue
		}
		queued++
	}
	if queued > 0 {
		sendProgress(fmt.Sprintf("Queued %d trends for deep analysis.", queued))
	}
	return queued
}

func (h *Handler) analyze(c *gin.Context) {
	task, err := h.svc.analyzer.Queue(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrTrendNotFound):
			response.NotFound(c)
		case errors.Is(err, ErrAnalysisDisabled):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	c.JSON(202, gin.H{"task_id": task.ID, "status": task.Status})
}
