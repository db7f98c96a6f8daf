package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyEndpointsAreStable(t *testing.T) {
	for name, e := range EaseNames {
		assert.InDelta(t, 0, Apply(e, 0), 1e-9, "easing %s at t=0", name)
		assert.InDelta(t, 1, Apply(e, 1), 1e-9, "easing %s at t=1", name)
	}
}

func TestApplyClampsOutOfRange(t *testing.T) {
	assert.Equal(t, Apply(EaseCubicOut, 0), Apply(EaseCubicOut, -5))
	assert.Equal(t, Apply(EaseCubicOut, 1), Apply(EaseCubicOut, 5))
}

func TestLerpUsesEasing(t *testing.T) {
	p := Position{X: 0}
	q := Position{X: 10}
	linear := Lerp(EaseLinear, p, q, 0.5)
	assert.InDelta(t, 5, linear.X, 1e-9)

	quadIn := Lerp(EaseQuadIn, p, q, 0.5)
	assert.InDelta(t, 2.5, quadIn.X, 1e-9)
}
