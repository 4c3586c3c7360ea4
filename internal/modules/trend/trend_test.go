package trend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/modules/engine"
	"github.com/trendscope/core/internal/modules/engine/classify"
	"github.com/trendscope/core/internal/modules/engine/detect"
)

func TestToResponse(t *testing.T) {
	musicID := "m-1"
	formatType := "meme_template"
	firstSeen := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	m := models.TrendModel{
		BrandID:           "b-1",
		Name:              "#glowup #transformation #fyp",
		Type:              models.TrendTypeHashtagCluster,
		HashtagCluster:    models.StringSlice{"glowup", "transformation", "fyp"},
		MusicID:           &musicID,
		FormatType:        &formatType,
		VelocityScore:     62,
		BreakoutScore:     48,
		RelevanceScore:    71,
		ContentCount:      9,
		TotalViews:        1_200_000,
		TotalLikes:        98_000,
		AvgEngagementRate: 0.0817,
		Status:            models.TrendActive,
		FirstSeen:         firstSeen,
	}
	m.ID = "t-1"

	out := toResponse(&m)

	assert.Equal(t, "t-1", out.ID)
	assert.Equal(t, "hashtag_cluster", out.Type)
	assert.Equal(t, []string{"glowup", "transformation", "fyp"}, out.HashtagCluster)
	assert.Equal(t, &musicID, out.MusicID)
	assert.Equal(t, &formatType, out.FormatType)
	assert.Equal(t, 71, out.RelevanceScore)
	assert.Equal(t, "active", out.Status)
	assert.Equal(t, "2026-08-01T12:00:00Z", out.FirstSeen)
}

type passBrands struct{}

func (passBrands) FetchBrandContext(_ context.Context, brandID string) (*detect.BrandContext, error) {
	return &detect.BrandContext{ID: brandID}, nil
}

type emptyContent struct{}

func (emptyContent) FetchRecentContent(context.Context, string, time.Time) ([]engine.Post, error) {
	return nil, nil
}

type noopStore struct{}

func (noopStore) FindBySignature(context.Context, string, models.TrendType, []string, *string) (*detect.TrendRecord, error) {
	return nil, nil
}

func (noopStore) Upsert(context.Context, string, detect.TrendUpsert) (string, error) {
	return "", nil
}

func (noopStore) UpsertLinks(context.Context, string, []string, float64) error { return nil }

type fakeLock struct {
	held     bool
	acquired []string
	released []string
}

func (f *fakeLock) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) (bool, error) {
	if f.held {
		return false, nil
	}
	f.acquired = append(f.acquired, key)
	return true, nil
}

func (f *fakeLock) Del(_ context.Context, keys ...string) error {
	f.released = append(f.released, keys...)
	return nil
}

func detectRouter(lock detectLocker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	detector := detect.NewService(passBrands{}, emptyContent{}, noopStore{}, classify.New(nil, nil), detect.Config{}, nil)
	svc := NewService(nil, detector, nil, lock, nil)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), func(c *gin.Context) { c.Next() })
	return r
}

func postDetect(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trends/detect", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestDetectEndpointHoldsPerBrandLock(t *testing.T) {
	lock := &fakeLock{}
	r := detectRouter(lock)

	w := postDetect(r, `{"brand_id":"b-1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"result"`)
	assert.Equal(t, []string{"ts:detect:lock:b-1"}, lock.acquired)
	assert.Equal(t, []string{"ts:detect:lock:b-1"}, lock.released)
}

func TestDetectEndpointRejectsConcurrentPass(t *testing.T) {
	lock := &fakeLock{held: true}
	r := detectRouter(lock)

	w := postDetect(r, `{"brand_id":"b-1"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, lock.released)
	assert.NotContains(t, w.Body.String(), `"type":"result"`)
}
