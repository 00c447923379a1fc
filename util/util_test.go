package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"treble": 1, "alto": 2, "bass": 3}

	assert := assert.New(t)
	assert.Equal([]string{"alto", "bass", "treble"}, SortedKeys(m))
}

func TestClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, Clamp(5, 0, 3))
	assert.Equal(0, Clamp(-1, 0, 3))
	assert.Equal(2, Clamp(2, 0, 3))
	// an empty range collapses to the lower bound
	assert.Equal(0, Clamp(4, 0, -1))
}

func TestContains(t *testing.T) {
	assert := assert.New(t)
	assert.True(Contains([]int{0, 1}, 1))
	assert.False(Contains([]int{}, 0))
}
