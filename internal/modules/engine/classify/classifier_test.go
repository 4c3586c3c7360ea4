package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCapability struct {
	results []Result
	err     error
	calls   int
}

func (s *stubCapability) Classify(_ context.Context, _ []ClusterSummary) ([]Result, error) {
	s.calls++
	return s.results, s.err
}

func povInput(id string) Input {
	return Input{
		ClusterID: id,
		Name:      "#pov #relatable",
		Hashtags:  []string{"pov", "relatable"},
		Captions: []string{
			"POV: you open the fridge for the tenth time",
			"pov: your alarm goes off on a monday",
		},
	}
}

func plainInput(id string) Input {
	return Input{
		ClusterID: id,
		Name:      "#sunset #photography",
		Hashtags:  []string{"sunset", "photography"},
		Captions:  []string{"golden hour again", "caught this view tonight"},
	}
}

func TestClassifyAll_UsesCapabilityResults(t *testing.T) {
	cap := &stubCapability{results: []Result{
		{ClusterID: "b", FormatType: "sound_trend", FormatLabel: "Lip-sync with trending audio drop"},
		{ClusterID: "a", FormatType: "pov_format", FormatLabel: "POV reaction with on-screen text"},
	}}
	c := New(cap, nil)

	got := c.ClassifyAll(context.Background(), []Input{povInput("a"), plainInput("b")})
	require.Len(t, got, 2)
	// Results are matched by id, not by position.
	assert.Equal(t, "pov_format", got[0].FormatType)
	assert.Equal(t, "POV reaction with on-screen text", got[0].FormatLabel)
	assert.Equal(t, "sound_trend", got[1].FormatType)
	assert.Equal(t, 1, cap.calls)
}

func TestClassifyAll_FallbackOnError(t *testing.T) {
	c := New(&stubCapability{err: errors.New("boom")}, nil)

	got := c.ClassifyAll(context.Background(), []Input{povInput("a"), plainInput("b")})
	require.Len(t, got, 2)
	assert.Equal(t, "pov_format", got[0].FormatType)
	assert.Equal(t, "pov_format pattern", got[0].FormatLabel)
	// No signal at all falls back to the cluster name.
	assert.Equal(t, FormatOther, got[1].FormatType)
	assert.Equal(t, "#sunset #photography", got[1].FormatLabel)
}

func TestClassifyAll_FallbackOnWrongCount(t *testing.T) {
	cap := &stubCapability{results: []Result{
		{ClusterID: "a", FormatType: "pov_format", FormatLabel: "x"},
	}}
	c := New(cap, nil)

	got := c.ClassifyAll(context.Background(), []Input{povInput("a"), plainInput("b")})
	require.Len(t, got, 2)
	assert.Equal(t, "pov_format pattern", got[0].FormatLabel)
}

func TestClassifyAll_FallbackOnUnknownFormatType(t *testing.T) {
	cap := &stubCapability{results: []Result{
		{ClusterID: "a", FormatType: "interpretive_dance", FormatLabel: "x"},
	}}
	c := New(cap, nil)

	got := c.ClassifyAll(context.Background(), []Input{povInput("a")})
	require.Len(t, got, 1)
	assert.Equal(t, "pov_format", got[0].FormatType)
}

func TestClassifyAll_FallbackOnMismatchedID(t *testing.T) {
	cap := &stubCapability{results: []Result{
		{ClusterID: "nonsense", FormatType: "pov_format", FormatLabel: "x"},
	}}
	c := New(cap, nil)

	got := c.ClassifyAll(context.Background(), []Input{povInput("a")})
	require.Len(t, got, 1)
	assert.Equal(t, "pov_format pattern", got[0].FormatLabel)
}

func TestClassifyAll_NilCapability(t *testing.T) {
	c := New(nil, nil)
	got := c.ClassifyAll(context.Background(), []Input{povInput("a")})
	require.Len(t, got, 1)
	assert.Equal(t, "pov_format", got[0].FormatType)
}

func TestClassifyAll_Empty(t *testing.T) {
	c := New(nil, nil)
	assert.Nil(t, c.ClassifyAll(context.Background(), nil))
}

func TestClassifyAll_OriginalSoundFlag(t *testing.T) {
	name := "original sound - someone"
	in := povInput("a")
	in.MusicName = &name
	c := New(nil, nil)

	got := c.ClassifyAll(context.Background(), []Input{in})
	require.Len(t, got, 1)
	assert.True(t, got[0].IsOriginalSound)
}
