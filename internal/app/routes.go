package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trendscope/core/internal/middleware"
	"github.com/trendscope/core/internal/modules/brand"
	"github.com/trendscope/core/internal/modules/content"
	"github.com/trendscope/core/internal/modules/engine/classify"
	"github.com/trendscope/core/internal/modules/engine/detect"
	"github.com/trendscope/core/internal/modules/trend"
	"github.com/trendscope/core/internal/pkg/ai"
	"github.com/trendscope/core/internal/pkg/pagination"
	"github.com/trendscope/core/internal/pkg/response"
	"github.com/trendscope/core/internal/pkg/taskqueue"
)

func (a *App) registerRoutes() {
	r := a.router
	cfg := a.cfg
	authMW := middleware.Auth(cfg.APIToken)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{
			"ok": 0, "code": http.StatusMethodNotAllowed, "message": "method not allowed",
		})
	})

	appInfo := gin.H{
		"name":    "trendscope-core",
		"version": "1.0.0",
	}

	api := r.Group("/api/v1")
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/health", func(c *gin.Context) {
		status := "ok"
		if sqlDB, err := a.db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "degraded"
		}
		if a.rc.Raw().Ping(c.Request.Context()).Err() != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	})

	taskSvc := taskqueue.NewService(a.rc)
	brandSvc := brand.NewService(a.db)
	contentSvc := content.NewService(a.db)

	var capability classify.Capability
	if cfg.AI.EnableClassify {
		if provider := ai.SelectProvider(cfg.AI, cfg.AI.ClassifyModel); provider != nil {
			capability = classify.NewLiveCapability(ai.NewClient(provider))
		} else {
			a.logger.Warn("format classification enabled but no usable provider, falling back to signal heuristics")
		}
	}
	classifier := classify.New(capability, a.logger)

	detector := detect.NewService(brandSvc, contentSvc, trend.NewStore(a.db), classifier, detect.Config{
		JaccardThreshold:          cfg.Engine.JaccardThreshold,
		ContentWindowDays:         cfg.Engine.ContentWindowDays,
		IndustryAvgEngagementRate: cfg.Engine.IndustryAvgEngagementRate,
		BreakoutAutoAnalyze:       cfg.Engine.BreakoutAutoAnalyze,
		RelevanceAutoAnalyze:      cfg.Engine.RelevanceAutoAnalyze,
		RelevanceHigh:             cfg.Engine.RelevanceHigh,
	}, a.logger)

	analyzer := trend.NewAnalyzer(a.db, cfg.AI, taskSvc, a.logger)
	trendSvc := trend.NewService(a.db, detector, analyzer, a.rc, a.logger)

	brand.NewHandler(brandSvc).RegisterRoutes(api, authMW)
	content.NewHandler(contentSvc).RegisterRoutes(api, authMW)
	trend.NewHandler(trendSvc).RegisterRoutes(api, authMW)

	registerTaskRoutes(api, taskSvc, authMW)
	a.registerJobRoutes(api, authMW)
	a.registerCronJobs(detector, brandSvc, analyzer)
}

// registerTaskRoutes exposes the background task queue for polling.
func registerTaskRoutes(rg *gin.RouterGroup, taskSvc *taskqueue.Service, authMW gin.HandlerFunc) {
	g := rg.Group("/tasks", authMW)

	g.GET("", func(c *gin.Context) {
		q := pagination.FromContext(c)
		var taskType *string
		if t := c.Query("type"); t != "" {
			taskType = &t
		}
		tasks, total, err := taskSvc.List(c.Request.Context(), q.Page, q.Size, taskType)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
		response.Paged(c, tasks, response.Pagination{
			Total:       total,
			CurrentPage: q.Page,
			TotalPage:   totalPage,
			Size:        q.Size,
			HasNextPage: q.Page < totalPage,
		})
	})

	g.GET("/:id", func(c *gin.Context) {
		task, err := taskSvc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if task == nil {
			response.NotFound(c)
			return
		}
		response.OK(c, task)
	})
}

// registerJobRoutes exposes the cron scheduler for inspection and
// manual triggering.
func (a *App) registerJobRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/jobs", authMW)

	g.GET("", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})

	g.POST("/:name/run", func(c *gin.Context) {
		if err := a.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"ok": 1})
	})
}
