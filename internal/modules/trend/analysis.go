package trend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/trendscope/core/internal/config"
	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/modules/engine/caption"
	"github.com/trendscope/core/internal/pkg/ai"
	"github.com/trendscope/core/internal/pkg/taskqueue"
)

const TaskTypeAnalysis = "trend_analysis"

var (
	ErrTrendNotFound    = errors.New("trend not found")
	ErrAnalysisDisabled = errors.New("deep analysis is disabled")
)

// trendBrief is the first-stage output: a brand-agnostic content brief.
type trendBrief struct {
	WhyTrending         string   `json:"why_trending"`
	Category            string   `json:"category"`
	WhatMakesReplicable string   `json:"what_makes_it_replicable"`
	RecreationSteps     []string `json:"recreation_steps"`
	RequiredSound       *string  `json:"required_sound"`
	RecommendedHooks    []string `json:"recommended_hooks"`
	CaptionTemplates    []string `json:"caption_templates"`
	ExampleCaptions     []string `json:"example_captions"`
	EstimatedDifficulty string   `json:"estimated_difficulty"`
	TalkingPoints       []string `json:"talking_points"`
	RiskNotes           *string  `json:"risk_notes"`
}

// brandAdaptation is the second-stage output: the brief rewritten for
// one brand.
type brandAdaptation struct {
	BrandAdaptation string   `json:"brand_adaptation"`
	RelevanceScore  int      `json:"relevance_score"`
	ContentAngles   []string `json:"content_angles"`
	AdaptedHooks    []string `json:"adapted_hooks"`
	AdaptedCaptions []string `json:"adapted_captions"`
	HashtagStrategy []string `json:"hashtag_strategy"`
	TalkingPoints   []string `json:"talking_points"`
}

type analysisPayload struct {
	TrendID string `json:"trend_id"`
}

// Analyzer runs the two-stage deep analysis: first a brand-agnostic
// content brief, then a brand-specific adaptation. Results are stored
// as a trend report; the trend's category is backfilled from the brief.
type Analyzer struct {
	db      *gorm.DB
	cfg     config.AIConfig
	tasks   *taskqueue.Service
	log     *zap.Logger
	enabled bool
}

func NewAnalyzer(db *gorm.DB, cfg config.AIConfig, tasks *taskqueue.Service, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{db: db, cfg: cfg, tasks: tasks, log: logger, enabled: cfg.EnableAnalysis}
}

func (a *Analyzer) Enabled() bool { return a.enabled }

// Queue enqueues an analysis task for the trend and runs it in the
// background. A task already in flight for the same trend is returned
// as-is instead of a duplicate.
func (a *Analyzer) Queue(ctx context.Context, trendID string) (*taskqueue.Task, error) {
	if !a.enabled {
		return nil, ErrAnalysisDisabled
	}

	var count int64
	if err := a.db.WithContext(ctx).Model(&models.TrendModel{}).Where("id = ?", trendID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrTrendNotFound
	}

	task, err := a.tasks.Enqueue(ctx, TaskTypeAnalysis, analysisPayload{TrendID: trendID}, trendID)
	if err != nil {
		return nil, err
	}
	if task.Status != taskqueue.TaskPending {
		return task, nil
	}

	go a.execute(task.ID, trendID)
	return task, nil
}

func (a *Analyzer) execute(taskID, trendID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := a.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, ""); err != nil {
		a.log.Warn("failed to mark analysis task running", zap.String("task_id", taskID), zap.Error(err))
	}

	report, err := a.Analyze(ctx, trendID)
	if err != nil {
		a.log.Error("trend analysis failed", zap.String("trend_id", trendID), zap.Error(err))
		_ = a.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, err.Error())
		return
	}

	_ = a.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, map[string]string{"report_id": report.ID}, "")
}

// Analyze produces and stores a report for the trend, replacing any
// previous report for the same trend.
func (a *Analyzer) Analyze(ctx context.Context, trendID string) (*models.TrendReportModel, error) {
	var t models.TrendModel
	if err := a.db.WithContext(ctx).First(&t, "id = ?", trendID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrendNotFound
		}
		return nil, err
	}

	var brand models.BrandModel
	if err := a.db.WithContext(ctx).First(&brand, "id = ?", t.BrandID).Error; err != nil {
		return nil, fmt.Errorf("load brand: %w", err)
	}

	samples, err := a.sampleContent(ctx, trendID)
	if err != nil {
		return nil, fmt.Errorf("load sample content: %w", err)
	}

	provider := ai.SelectProvider(a.cfg, a.cfg.AnalysisModel)
	client := ai.NewClient(provider)
	if client == nil {
		return nil, errors.New("no enabled analysis provider configured")
	}

	brief, err := a.buildBrief(ctx, client, &t, samples)
	if err != nil {
		return nil, fmt.Errorf("content brief: %w", err)
	}

	adaptation, err := a.adaptForBrand(ctx, client, brief, &brand)
	if err != nil {
		return nil, fmt.Errorf("brand adaptation: %w", err)
	}

	report := models.TrendReportModel{
		TrendID:        t.ID,
		BrandID:        brand.ID,
		WhyTrending:    brief.WhyTrending,
		HowToUse:       a.renderHowToUse(brief, adaptation),
		RelevanceScore: clampPercent(adaptation.RelevanceScore),
		TalkingPoints:  models.StringSlice(adaptation.TalkingPoints),
		ContentAngles:  models.StringSlice(adaptation.ContentAngles),
		RiskNotes:      brief.RiskNotes,
		ModelUsed:      client.Model(),
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trend_id = ?", t.ID).Delete(&models.TrendReportModel{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		if brief.Category != "" {
			if err := tx.Model(&models.TrendModel{}).Where("id = ?", t.ID).Update("category", brief.Category).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.Info("trend report stored",
		zap.String("trend_id", t.ID),
		zap.String("brand_id", brand.ID),
		zap.Int("relevance_score", report.RelevanceScore),
		zap.String("model", report.ModelUsed))
	return &report, nil
}

func (a *Analyzer) sampleContent(ctx context.Context, trendID string) ([]models.ContentModel, error) {
	var rows []models.ContentModel
	err := a.db.WithContext(ctx).
		Joins("JOIN trend_contents ON trend_contents.content_id = contents.id").
		Where("trend_contents.trend_id = ?", trendID).
		Order("contents.virality_score DESC").
		Limit(10).
		Find(&rows).Error
	return rows, err
}

func (a *Analyzer) buildBrief(ctx context.Context, client *ai.Client, t *models.TrendModel, samples []models.ContentModel) (*trendBrief, error) {
	captions := make([]string, 0, len(samples))
	for _, s := range samples {
		if s.Caption != "" {
			captions = append(captions, s.Caption)
		}
	}
	patterns := caption.Analyze(captions, t.HashtagCluster)

	input := map[string]interface{}{
		"trend_name":          t.Name,
		"trend_type":          t.Type,
		"hashtags":            t.HashtagCluster,
		"music_name":          t.MusicName,
		"music_author":        t.MusicAuthor,
		"format_type":         t.FormatType,
		"format_label":        t.FormatLabel,
		"content_count":       t.ContentCount,
		"total_views":         t.TotalViews,
		"avg_engagement_rate": t.AvgEngagementRate,
		"velocity_score":      t.VelocityScore,
		"breakout_score":      t.BreakoutScore,
		"detected_hooks":      patterns.Hooks,
		"caption_structures":  patterns.Structures,
		"sample_captions":     captions,
	}
	data, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return nil, err
	}

	raw, err := client.Generate(ctx, trendAnalysisSystem, "Analyze this trend:\n\n"+string(data), 4096)
	if err != nil {
		return nil, err
	}

	var brief trendBrief
	if err := ai.UnmarshalResponse(raw, &brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

func (a *Analyzer) adaptForBrand(ctx context.Context, client *ai.Client, brief *trendBrief, brand *models.BrandModel) (*brandAdaptation, error) {
	briefJSON, err := json.MarshalIndent(brief, "", "  ")
	if err != nil {
		return nil, err
	}
	profile := map[string]interface{}{
		"name":     brand.Name,
		"industry": brand.Industry,
		"keywords": brand.Keywords,
		"website":  brand.WebsiteURL,
	}
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Content brief:\n\n%s\n\nBrand profile:\n\n%s\n\nAdapt the trend to this brand.", briefJSON, profileJSON)
	raw, err := client.Generate(ctx, brandContextSystem, prompt, 4096)
	if err != nil {
		return nil, err
	}

	var adaptation brandAdaptation
	if err := ai.UnmarshalResponse(raw, &adaptation); err != nil {
		return nil, err
	}
	return &adaptation, nil
}

// renderHowToUse flattens the adaptation plus the brief's recreation
// guidance into the report's single how-to field.
func (a *Analyzer) renderHowToUse(brief *trendBrief, adaptation *brandAdaptation) string {
	var b strings.Builder
	b.WriteString(adaptation.BrandAdaptation)
	if len(brief.RecreationSteps) > 0 {
		b.WriteString("\n\nHow to recreate:\n")
		for i, step := range brief.RecreationSteps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	if len(adaptation.AdaptedHooks) > 0 {
		b.WriteString("\nSuggested hooks:\n")
		for _, h := range adaptation.AdaptedHooks {
			b.WriteString("- " + h + "\n")
		}
	}
	if len(adaptation.AdaptedCaptions) > 0 {
		b.WriteString("\nSuggested captions:\n")
		for _, c := range adaptation.AdaptedCaptions {
			b.WriteString("- " + c + "\n")
		}
	}
	if len(adaptation.HashtagStrategy) > 0 {
		b.WriteString("\nHashtags: " + strings.Join(adaptation.HashtagStrategy, " "))
	}
	return strings.TrimSpace(b.String())
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
