package text

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

func newTestMeasurer(t *testing.T) *Measurer {
	t.Helper()
	m, err := NewMeasurer(0)
	require.NoError(t, err)
	return m
}

func TestMeasureDefaultFont(t *testing.T) {
	m := newTestMeasurer(t)

	b := m.Measure("Hello, Breeze!", 0, 16)
	assert.Greater(t, b.Width, float32(0))
	assert.Greater(t, b.Ascent, float32(0))
	assert.Greater(t, b.Descent, float32(0))
	assert.GreaterOrEqual(t, b.Height, b.Ascent+b.Descent)
	assert.Positive(t, b.Glyphs)
	assert.False(t, b.RTL)
}

func TestMeasureScalesWithSize(t *testing.T) {
	m := newTestMeasurer(t)

	small := m.Measure("scale", 0, 10)
	large := m.Measure("scale", 0, 20)
	assert.InDelta(t, small.Width*2, large.Width, 1.0)
	assert.Greater(t, large.Height, small.Height)
}

func TestMeasureLongerTextIsWider(t *testing.T) {
	m := newTestMeasurer(t)
	assert.Greater(t, m.Measure("wwww", 0, 16).Width, m.Measure("w", 0, 16).Width)
}

func TestMeasureDegenerate(t *testing.T) {
	m := newTestMeasurer(t)

	tests := []struct {
		name    string
		content string
		size    float32
	}{
		{"empty", "", 16},
		{"zero size", "abc", 0},
		{"negative size", "abc", -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Bounds{}, m.Measure(tt.content, 0, tt.size))
		})
	}
}

func TestMeasureRTL(t *testing.T) {
	m := newTestMeasurer(t)
	assert.True(t, m.Measure("שלום", 0, 16).RTL)
}

func TestMeasureCachesBounds(t *testing.T) {
	m := newTestMeasurer(t)

	first := m.Measure("cached", 0, 16)
	second := m.Measure("cached", 0, 16)
	assert.Equal(t, first, second)

	st := m.CacheStats()
	assert.Equal(t, uint64(1), st.Misses)
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, 1, st.Len)
}

func TestRegisterFont(t *testing.T) {
	m := newTestMeasurer(t)

	require.NoError(t, m.Register(7, gobold.TTF))
	assert.True(t, m.Has(7))
	assert.Greater(t, m.Measure("bold", 7, 16).Width, float32(0))

	// Unknown handles fall back to the default font.
	assert.Equal(t, m.Measure("x", 0, 16).Width, m.Measure("x", 99, 16).Width)
}

func TestRegisterReplaceAdvancesGeneration(t *testing.T) {
	m := newTestMeasurer(t)
	require.NoError(t, m.Register(7, gobold.TTF))
	assert.Zero(t, m.Generation())

	bold := m.Measure("WWWW", 7, 16)
	require.NoError(t, m.Register(7, gomono.TTF))
	assert.Equal(t, uint64(1), m.Generation())
	assert.NotEqual(t, bold.Width, m.Measure("WWWW", 7, 16).Width)
}

func TestRegisterErrors(t *testing.T) {
	m := newTestMeasurer(t)

	assert.ErrorIs(t, m.Register(0, gobold.TTF), ErrReservedFont)
	assert.ErrorIs(t, m.Register(3, nil), ErrEmptyFontData)

	err := m.Register(4, []byte("not a font"))
	var fe *FontError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, uint64(4), fe.Handle)
	assert.False(t, m.Has(4))
}
