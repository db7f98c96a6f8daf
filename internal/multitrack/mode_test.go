package multitrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportsRelativeIgnoresVariant(t *testing.T) {
	modes := []ModeVariant{{Relative, VariantNone}}
	assert.True(t, Supports(modes, Relative, Shared))
	assert.False(t, Supports(modes, Barycentric, Shared))
}

func TestSupportsBarycentricRequiresExactVariant(t *testing.T) {
	modes := []ModeVariant{{Barycentric, Isobarycentric}}
	assert.True(t, Supports(modes, Barycentric, Isobarycentric))
	assert.False(t, Supports(modes, Barycentric, Shared))
}

func TestMigrateModeTable(t *testing.T) {
	cases := []struct {
		legacy  string
		mode    Mode
		variant Variant
	}{
		{"identical", Barycentric, Shared},
		{"phase-offset", Barycentric, Shared},
		{"centered", Barycentric, Centered},
		{"isobarycenter", Barycentric, Isobarycentric},
		{"formation", Barycentric, Isobarycentric},
		{"position-relative", Relative, VariantNone},
		{"phase-offset-relative", Relative, VariantNone},
		{"per-track", Relative, VariantNone},
		{"relative", Relative, VariantNone},
		{"something-unknown", Relative, VariantNone},
	}
	for _, c := range cases {
		mode, variant := MigrateMode(c.legacy)
		assert.Equal(t, c.mode, mode, "legacy %q mode", c.legacy)
		assert.Equal(t, c.variant, variant, "legacy %q variant", c.legacy)
	}
}

func TestModeAndVariantString(t *testing.T) {
	assert.Equal(t, "relative", Relative.String())
	assert.Equal(t, "barycentric", Barycentric.String())
	assert.Equal(t, "shared", Shared.String())
	assert.Equal(t, "isobarycentric", Isobarycentric.String())
	assert.Equal(t, "centered", Centered.String())
	assert.Equal(t, "custom", Custom.String())
	assert.Equal(t, "none", VariantNone.String())
}
