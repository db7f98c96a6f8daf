package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schollz/orbiter/internal/orbiterr"
)

func TestAnimationValidateRequiresPositiveDuration(t *testing.T) {
	a := Animation{Duration: 0}
	err := a.Validate()
	var ve *orbiterr.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "duration", ve.Path)
}

func TestAnimationValidatePingPongRequiresLoop(t *testing.T) {
	a := Animation{Duration: 1, PingPong: true, Loop: false}
	err := a.Validate()
	var ve *orbiterr.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "pingPong", ve.Path)
}

func TestAnimationValidatePasses(t *testing.T) {
	a := Animation{Duration: 4, Loop: true, PingPong: true}
	assert.NoError(t, a.Validate())
}
