package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloatComparison(t *testing.T) {
	testCases := []struct {
		name               string
		a, b               float64
		eq, lt, le, ge, gt bool
	}{
		{"equal", 1.0, 1.0, true, false, true, true, false},
		{"within eps", 1.0, 1.0 + EPS/2, true, false, true, true, false},
		{"clearly less", 1.0, 2.0, false, true, true, false, false},
		{"clearly greater", 2.0, 1.0, false, false, false, true, true},
		{"just over eps", 0, 2 * EPS, false, true, true, false, false},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eq, Eq(tt.a, tt.b), "Eq")
			assert.Equal(t, tt.lt, Lt(tt.a, tt.b), "Lt")
			assert.Equal(t, tt.le, Le(tt.a, tt.b), "Le")
			assert.Equal(t, tt.ge, Ge(tt.a, tt.b), "Ge")
			assert.Equal(t, tt.gt, Gt(tt.a, tt.b), "Gt")
		})
	}
}
