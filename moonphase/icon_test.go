package moonphase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIconsAreDistinguishable(t *testing.T) {
	seen := make(map[string]Phase)
	for _, p := range Phases {
		svg := NewIcon(p, 32, "#222").SVG()
		if other, ok := seen[svg]; ok {
			t.Errorf("%s renders the same as %s", p, other)
		}
		seen[svg] = p
	}
}

func TestIconNewAndFullMoon(t *testing.T) {
	newMoon := NewIcon(NewMoon, 24, "white")
	assert.False(t, newMoon.Filled())
	assert.NotContains(t, newMoon.SVG(), "<path")
	assert.Contains(t, newMoon.SVG(), `fill="none" stroke="white"`)

	fullMoon := NewIcon(FullMoon, 24, "white")
	assert.True(t, fullMoon.Filled())
	assert.Contains(t, fullMoon.SVG(), `fill="white"/>`)
	assert.Equal(t, newMoon.Bounds(), fullMoon.Bounds())
}

func TestIconMirrorSymmetry(t *testing.T) {
	pairs := []struct {
		waxing, waning Phase
	}{
		{WaxingCrescent, WaningCrescent},
		{FirstQuarter, LastQuarter},
		{WaxingGibbous, WaningGibbous},
	}
	for _, size := range []float64{16, 24, 100} {
		for _, pair := range pairs {
			a := NewIcon(pair.waxing, size, "red").Bounds()
			b := NewIcon(pair.waning, size, "red").Bounds()
			assert.InDelta(t, a.MinX, size-b.MaxX, 1e-9, "%s/%s at %v", pair.waxing, pair.waning, size)
			assert.InDelta(t, a.MaxX, size-b.MinX, 1e-9, "%s/%s at %v", pair.waxing, pair.waning, size)
			assert.InDelta(t, a.MinY, b.MinY, 1e-9)
			assert.InDelta(t, a.MaxY, b.MaxY, 1e-9)
		}
	}
}

func TestIconLitSide(t *testing.T) {
	const size = 24
	for _, p := range []Phase{WaxingCrescent, FirstQuarter, WaxingGibbous} {
		b := NewIcon(p, size, "red").Bounds()
		assert.InDelta(t, size/2+NewIcon(p, size, "red").radius(), b.MaxX, 1e-9, p.String())
	}
	crescent := NewIcon(WaxingCrescent, size, "red").Bounds()
	quarter := NewIcon(FirstQuarter, size, "red").Bounds()
	gibbous := NewIcon(WaxingGibbous, size, "red").Bounds()
	assert.Greater(t, crescent.MinX, quarter.MinX)
	assert.Greater(t, quarter.MinX, gibbous.MinX)
	assert.InDelta(t, size/2, quarter.MinX, 1e-9)
}

func TestIconFitsBox(t *testing.T) {
	for _, size := range []float64{8, 24, 64} {
		for _, p := range Phases {
			i := NewIcon(p, size, "red")
			b := i.Bounds()
			sw := i.strokeWidth() / 2
			if b.MinX-sw < 0 || b.MinY-sw < 0 || b.MaxX+sw > size || b.MaxY+sw > size {
				t.Errorf("%s at %v doesn't fit: %+v", p, size, b)
			}
			if !strings.Contains(i.SVG(), `viewBox="0 0 `) {
				t.Errorf("%s has no view box", p)
			}
		}
	}
}

func TestIconPath(t *testing.T) {
	tests := []struct {
		phase Phase
		path  string
	}{
		{FirstQuarter, "M 12 0.5 A 11.5 11.5 0 0 1 12 23.5 L 12 0.5 Z"},
		{LastQuarter, "M 12 0.5 A 11.5 11.5 0 0 0 12 23.5 L 12 0.5 Z"},
		{WaxingCrescent, "M 12 0.5 A 11.5 11.5 0 0 1 12 23.5 A 5.75 11.5 0 0 0 12 0.5 Z"},
		{WaningCrescent, "M 12 0.5 A 11.5 11.5 0 0 0 12 23.5 A 5.75 11.5 0 0 1 12 0.5 Z"},
		{WaxingGibbous, "M 12 0.5 A 11.5 11.5 0 0 1 12 23.5 A 5.75 11.5 0 0 1 12 0.5 Z"},
		{WaningGibbous, "M 12 0.5 A 11.5 11.5 0 0 0 12 23.5 A 5.75 11.5 0 0 0 12 0.5 Z"},
		{FullMoon, "M 0.5 12 A 11.5 11.5 0 1 0 23.5 12 A 11.5 11.5 0 1 0 0.5 12 Z"},
	}
	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			if got := NewIcon(tt.phase, 24, "red").Path(); got != tt.path {
				t.Errorf("got %q, want %q", got, tt.path)
			}
		})
	}
}

func TestNewIconDefaults(t *testing.T) {
	i := NewIcon(FullMoon, 0, "")
	assert.Equal(t, float64(DefaultSize), i.Size)
	assert.Equal(t, "currentColor", i.Color)
	assert.Contains(t, NewIcon(FullMoon, 10, `"><script>`).SVG(), "&#34;&gt;&lt;script&gt;")
}
