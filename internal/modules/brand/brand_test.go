package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Glow Labs":         "glow-labs",
		"  Café & Crema!  ": "caf-crema",
		"already-slugged":   "already-slugged",
		"MiXeD CaSe 123":    "mixed-case-123",
		"---":               "",
		"Trailing Space ":   "trailing-space",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestNormalizeKeywords(t *testing.T) {
	got := normalizeKeywords([]string{" Vegan ", "vegan", "", "Protein Shake"})
	assert.Equal(t, []string{"vegan", "protein shake"}, []string(got))
}
