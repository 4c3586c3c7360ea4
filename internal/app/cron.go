package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/trendscope/core/internal/modules/brand"
	"github.com/trendscope/core/internal/modules/engine/detect"
	"github.com/trendscope/core/internal/modules/trend"
	pkgcron "github.com/trendscope/core/internal/pkg/cron"
)

// registerCronJobs schedules the recurring detection pass over every
// active brand.
func (a *App) registerCronJobs(detector *detect.Service, brandSvc *brand.Service, analyzer *trend.Analyzer) {
	log := a.logger.Named("cron")
	interval := time.Duration(a.cfg.Engine.DetectIntervalHours) * time.Hour

	a.sched.Register(pkgcron.Job{
		Name:        "detect_trends",
		Description: fmt.Sprintf("Run trend detection for all active brands every %dh", a.cfg.Engine.DetectIntervalHours),
		Interval:    interval,
		Fn: func(ctx context.Context) error {
			brands, err := brandSvc.ActiveBrands()
			if err != nil {
				log.Warn("failed to load active brands", zap.Error(err))
				return err
			}
			var firstErr error
			for _, b := range brands {
				result, err := detector.Run(ctx, b.ID, nil)
				if err != nil {
					log.Warn("detection pass failed",
						zap.String("brand_id", b.ID),
						zap.String("brand", b.Name),
						zap.Error(err))
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				log.Info("detection pass completed",
					zap.String("brand_id", b.ID),
					zap.String("brand", b.Name),
					zap.Int("created", result.TrendsCreated),
					zap.Int("updated", result.TrendsUpdated))
				queueAnalyses(ctx, analyzer, result, log)
			}
			return firstErr
		},
	})
}

func queueAnalyses(ctx context.Context, analyzer *trend.Analyzer, result *detect.Result, log *zap.Logger) {
	if analyzer == nil || !analyzer.Enabled() {
		return
	}
	for _, id := range result.AutoAnalyzeIDs {
		if _, err := analyzer.Queue(ctx, id); err != nil {
			log.Warn("failed to queue auto analysis", zap.String("trend_id", id), zap.Error(err))
		}
	}
}
