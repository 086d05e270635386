package utils_test

import (
	"guestlist/src-server/utils"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	for input, want := range map[string]string{
		"Summer BBQ":           "summer-bbq",
		"Crème brûlée night":   "creme-brulee-night",
		"--- !!! ---":          "",
		"2025 Reunion":         "2025-reunion",
		"  Potluck  at  noon ": "potluck-at-noon",
	} {
		assert.Equal(t, want, utils.Slugify(input), input)
	}
	assert.Equal(t, "bbq-party-in-our-yard", utils.Slugify("BBQ party 🏡🍔🍻 in our yard"))
}

func TestFoldCase(t *testing.T) {
	assert.Equal(t, utils.FoldCase("yes"), utils.FoldCase("YES"))
	assert.Equal(t, "maybe", utils.FoldCase("MaYbE"))
}
