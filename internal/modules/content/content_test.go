package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHashtags(t *testing.T) {
	got := normalizeHashtags([]string{"#GRWM", " grwm ", "Fitness", "", "#"})
	assert.Equal(t, []string{"grwm", "fitness"}, []string(got))
}
