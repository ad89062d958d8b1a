package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMath_MinMax(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, Min(2, 5))
	assert.Equal(2, Min(5, 2))
	assert.Equal(5, Max(2, 5))
	assert.Equal(5.5, Max(5.5, -1.0))
	assert.Equal(3, Abs(-3))
	assert.Equal(0.25, Abs(-0.25))
}

func TestMath_Clamp(t *testing.T) {
	cases := []struct {
		in, lo, hi, want float64
	}{
		{-0.5, 0, 1, 0},
		{0.5, 0, 1, 0.5},
		{1.5, 0, 1, 1},
		{300, 0, 255, 255},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Clamp(c.in, c.lo, c.hi))
	}
}

func TestMath_Contains(t *testing.T) {
	assert.True(t, Contains([]string{"png", "svg"}, "svg"))
	assert.False(t, Contains([]string{"png", "svg"}, "eps"))
	assert.False(t, Contains[int](nil, 1))
}
