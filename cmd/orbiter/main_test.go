package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSceneIsPlayable(t *testing.T) {
	project, animID, trackIDs := demoScene()
	require.Len(t, trackIDs, 3)

	anim, ok := project.FindAnimation(animID)
	require.True(t, ok)
	assert.NoError(t, anim.Validate())

	for _, id := range trackIDs {
		_, ok := project.FindTrack(id)
		assert.True(t, ok, "track %q must exist", id)
	}
}
