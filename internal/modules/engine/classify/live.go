package classify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trendscope/core/internal/pkg/ai"
)

const classifySystemPrompt = `You are a short-video format analyst. For each content cluster below, determine the specific REPLICABLE FORMAT, not just the topic.

A "format" is a repeatable content structure: a specific sound usage pattern, a meme template, a POV style, a challenge mechanic, a tutorial framework, etc. The format_label should be specific enough that a content creator knows exactly what kind of video to make.

For each cluster, return:
- format_type: one of: sound_trend, meme_template, challenge, tutorial_format, pov_format, grwm, transition_trend, storytime, before_after, other
- format_label: a specific descriptive label (e.g., "POV Reaction with Trending Audio", "Step-by-Step Tutorial with Voiceover", NOT just "POV" or "Tutorial")

Respond with ONLY valid JSON, no markdown. Return an array matching the input order:
[
  { "cluster_id": "...", "format_type": "...", "format_label": "..." },
  ...
]

RULES:
- format_type must be one of the allowed values listed above
- format_label should be 4-10 words, specific to the content pattern
- If a cluster uses a specific trending sound, mention it in format_label
- If unsure, use "other" with a descriptive format_label
- Return ONLY valid JSON, no markdown fences.`

// LiveCapability classifies clusters through the configured language
// model.
type LiveCapability struct {
	client *ai.Client
}

// NewLiveCapability returns nil when no client is available so the
// classifier degrades to heuristics.
func NewLiveCapability(client *ai.Client) *LiveCapability {
	if client == nil {
		return nil
	}
	return &LiveCapability{client: client}
}

func (l *LiveCapability) Classify(ctx context.Context, clusters []ClusterSummary) ([]Result, error) {
	payload, err := json.MarshalIndent(clusters, "", "  ")
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Classify these %d clusters:\n\n%s", len(clusters), payload)
	raw, err := l.client.Generate(ctx, classifySystemPrompt, prompt, 2048)
	if err != nil {
		return nil, err
	}

	var results []Result
	if err := ai.UnmarshalResponse(raw, &results); err != nil {
		return nil, err
	}
	return results, nil
}
