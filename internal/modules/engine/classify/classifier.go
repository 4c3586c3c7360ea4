package classify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/trendscope/core/internal/modules/engine/caption"
)

const (
	maxHashtagsPerSummary = 10
	maxCaptionsPerSummary = 5
)

// Classifier classifies all clusters of one detection pass in a single
// batch.
type Classifier struct {
	capability Capability
	log        *zap.Logger
}

// New builds a Classifier. A nil capability means heuristics only.
func New(capability Capability, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{capability: capability, log: log}
}

// ClassifyAll classifies every input. It never fails: when the
// capability errors or returns an invalid batch, every cluster gets the
// heuristic fallback instead.
func (c *Classifier) ClassifyAll(ctx context.Context, inputs []Input) []Classification {
	if len(inputs) == 0 {
		return nil
	}

	analyses := make([]caption.Analysis, len(inputs))
	summaries := make([]ClusterSummary, len(inputs))
	for i, in := range inputs {
		analyses[i] = caption.Analyze(in.Captions, in.Hashtags)
		summaries[i] = ClusterSummary{
			ClusterID:         in.ClusterID,
			Name:              in.Name,
			Hashtags:          truncate(in.Hashtags, maxHashtagsPerSummary),
			MusicName:         in.MusicName,
			MusicAuthor:       in.MusicAuthor,
			IsOriginalSound:   caption.IsOriginalSound(in.MusicName),
			DetectedSignals:   analyses[i].SignalCounts,
			CaptionStructures: analyses[i].Structures,
			SampleCaptions:    truncate(in.Captions, maxCaptionsPerSummary),
		}
	}

	if c.capability == nil {
		return c.fallbackAll(inputs, analyses)
	}

	results, err := c.capability.Classify(ctx, summaries)
	if err == nil {
		err = validateResults(inputs, results)
	}
	if err != nil {
		c.log.Warn("format classification failed, using heuristics", zap.Error(err))
		return c.fallbackAll(inputs, analyses)
	}

	byID := make(map[string]Result, len(results))
	for _, r := range results {
		byID[r.ClusterID] = r
	}

	out := make([]Classification, len(inputs))
	for i, in := range inputs {
		r := byID[in.ClusterID]
		out[i] = Classification{
			ClusterID:       in.ClusterID,
			FormatType:      r.FormatType,
			FormatLabel:     r.FormatLabel,
			IsOriginalSound: caption.IsOriginalSound(in.MusicName),
			Analysis:        analyses[i],
		}
	}
	return out
}

// validateResults enforces the capability contract: same cardinality,
// every cluster id answered exactly once, format types from the closed
// vocabulary.
func validateResults(inputs []Input, results []Result) error {
	if len(results) != len(inputs) {
		return fmt.Errorf("expected %d classifications, got %d", len(inputs), len(results))
	}

	byID := make(map[string]Result, len(results))
	for _, r := range results {
		if _, dup := byID[r.ClusterID]; dup {
			return fmt.Errorf("duplicate classification for cluster %s", r.ClusterID)
		}
		byID[r.ClusterID] = r
	}

	for _, in := range inputs {
		r, ok := byID[in.ClusterID]
		if !ok {
			return fmt.Errorf("missing classification for cluster %s", in.ClusterID)
		}
		if !IsValidFormatType(r.FormatType) {
			return fmt.Errorf("unknown format_type %q for cluster %s", r.FormatType, in.ClusterID)
		}
	}
	return nil
}

func (c *Classifier) fallbackAll(inputs []Input, analyses []caption.Analysis) []Classification {
	out := make([]Classification, len(inputs))
	for i, in := range inputs {
		out[i] = fallback(in, analyses[i])
	}
	return out
}

// fallback derives a classification from caption heuristics alone.
func fallback(in Input, analysis caption.Analysis) Classification {
	formatType := FormatOther
	label := in.Name
	if analysis.PrimarySignal != "" {
		formatType = analysis.PrimarySignal
		label = analysis.PrimarySignal + " pattern"
	}
	return Classification{
		ClusterID:       in.ClusterID,
		FormatType:      formatType,
		FormatLabel:     label,
		IsOriginalSound: caption.IsOriginalSound(in.MusicName),
		Analysis:        analysis,
	}
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
