// Package classify assigns a replicable content format to each cluster,
// preferring an external AI capability and falling back to caption
// heuristics when the call fails.
package classify

import (
	"context"

	"github.com/trendscope/core/internal/modules/engine/caption"
)

// FormatOther is the catch-all format type.
const FormatOther = "other"

// validFormatTypes is the closed vocabulary a classification result must
// draw from.
var validFormatTypes = map[string]struct{}{
	"sound_trend":      {},
	"meme_template":    {},
	"challenge":        {},
	"tutorial_format":  {},
	"pov_format":       {},
	"grwm":             {},
	"transition_trend": {},
	"storytime":        {},
	"before_after":     {},
	FormatOther:        {},
}

// IsValidFormatType reports whether a format type is in the closed
// vocabulary.
func IsValidFormatType(t string) bool {
	_, ok := validFormatTypes[t]
	return ok
}

// Input is one cluster awaiting classification.
type Input struct {
	ClusterID   string
	Name        string
	Hashtags    []string
	MusicName   *string
	MusicAuthor *string
	Captions    []string
}

// ClusterSummary is the per-cluster payload sent to the capability.
type ClusterSummary struct {
	ClusterID         string         `json:"cluster_id"`
	Name              string         `json:"name"`
	Hashtags          []string       `json:"hashtags"`
	MusicName         *string        `json:"music_name"`
	MusicAuthor       *string        `json:"music_author"`
	IsOriginalSound   bool           `json:"is_original_sound"`
	DetectedSignals   map[string]int `json:"detected_caption_signals"`
	CaptionStructures []string       `json:"caption_structures"`
	SampleCaptions    []string       `json:"sample_captions"`
}

// Result is one classification returned by the capability.
type Result struct {
	ClusterID   string `json:"cluster_id"`
	FormatType  string `json:"format_type"`
	FormatLabel string `json:"format_label"`
}

// Capability is the external classification boundary. Implementations
// must return one result per summary, matched by cluster id.
type Capability interface {
	Classify(ctx context.Context, clusters []ClusterSummary) ([]Result, error)
}

// Classification merges a capability (or fallback) result with the
// heuristic caption analysis for one cluster.
type Classification struct {
	ClusterID       string
	FormatType      string
	FormatLabel     string
	IsOriginalSound bool
	Analysis        caption.Analysis
}
