package util

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("boom")
	err := WrapErrorf(orig, ErrUnresolvablePlace, "place %d", 3)

	assert.True(t, errors.Is(err, ErrUnresolvablePlace))
	assert.True(t, errors.Is(err, orig))
	assert.False(t, errors.Is(err, ErrNoRoute))
	assert.Equal(t, "place 3: boom", err.Error())

	var uErr *Error
	if assert.True(t, errors.As(err, &uErr)) {
		assert.Equal(t, ErrUnresolvablePlace, uErr.Code())
	}
}

func TestReverseG(t *testing.T) {
	in := []int{1, 2, 3}
	out := ReverseG(in)
	assert.Equal(t, []int{3, 2, 1}, out)
	assert.Equal(t, []int{1, 2, 3}, in)
}

func TestIsFiniteNonNegative(t *testing.T) {
	testCases := []struct {
		name string
		v    float64
		want bool
	}{
		{"zero", 0, true},
		{"positive", 12.5, true},
		{"negative", -1, false},
		{"nan", math.NaN(), false},
		{"inf", math.Inf(1), false},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFiniteNonNegative(tt.v))
		})
	}
}

func TestClampG(t *testing.T) {
	assert.Equal(t, 5, ClampG(7, 0, 5))
	assert.Equal(t, 0.0, ClampG(-2.0, 0, 5))
	assert.Equal(t, 3, ClampG(3, 0, 5))
}
