package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "github.com/trendscope/core/internal/config"
)

func TestUnmarshalResponse(t *testing.T) {
	type payload struct {
		Label string `json:"label"`
	}

	t.Run("plain json", func(t *testing.T) {
		var p payload
		require.NoError(t, UnmarshalResponse(`{"label":"a"}`, &p))
		assert.Equal(t, "a", p.Label)
	})

	t.Run("fenced json", func(t *testing.T) {
		var p payload
		require.NoError(t, UnmarshalResponse("```json\n{\"label\":\"b\"}\n```", &p))
		assert.Equal(t, "b", p.Label)
	})

	t.Run("json embedded in prose", func(t *testing.T) {
		var p payload
		require.NoError(t, UnmarshalResponse(`Here you go: {"label":"c"} hope that helps`, &p))
		assert.Equal(t, "c", p.Label)
	})

	t.Run("array payload", func(t *testing.T) {
		var items []payload
		require.NoError(t, UnmarshalResponse("Sure!\n[{\"label\":\"d\"}]", &items))
		require.Len(t, items, 1)
		assert.Equal(t, "d", items[0].Label)
	})

	t.Run("garbage fails", func(t *testing.T) {
		var p payload
		assert.Error(t, UnmarshalResponse("not json at all", &p))
	})
}

func TestSelectProvider(t *testing.T) {
	cfg := appcfg.AIConfig{
		Providers: []appcfg.AIProvider{
			{ID: "disabled", Enabled: false, DefaultModel: "m0"},
			{ID: "first", Enabled: true, DefaultModel: "m1"},
			{ID: "second", Enabled: true, DefaultModel: "m2"},
		},
	}

	t.Run("assignment picks by id with model override", func(t *testing.T) {
		p := SelectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "second", Model: "custom"})
		require.NotNil(t, p)
		assert.Equal(t, "second", p.ID)
		assert.Equal(t, "custom", p.DefaultModel)
	})

	t.Run("falls back to first enabled", func(t *testing.T) {
		p := SelectProvider(cfg, nil)
		require.NotNil(t, p)
		assert.Equal(t, "first", p.ID)
	})

	t.Run("nil when nothing enabled", func(t *testing.T) {
		assert.Nil(t, SelectProvider(appcfg.AIConfig{}, nil))
	})
}
