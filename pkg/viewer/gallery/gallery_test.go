package gallery

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shots(n int) []Screenshot {
	out := make([]Screenshot, n)
	for i := range out {
		out[i] = Screenshot{ImageRef: filepath.Join("shots", string(rune('a'+i))+".png"), Title: string(rune('A' + i))}
	}
	return out
}

func TestWraparound(t *testing.T) {
	for n := 1; n <= 5; n++ {
		g := New(shots(n))
		for i := 0; i < n; i++ {
			prev, ok := g.Previous(i)
			require.True(t, ok)
			next, ok := g.Next(i)
			require.True(t, ok)

			if i == 0 {
				assert.Equal(t, n-1, prev, "previous from 0 wraps, n=%d", n)
			} else {
				assert.Equal(t, i-1, prev)
			}
			if i == n-1 {
				assert.Equal(t, 0, next, "next from last wraps, n=%d", n)
			} else {
				assert.Equal(t, i+1, next)
			}
		}
	}
}

func TestNextFromLastScenario(t *testing.T) {
	g := New([]Screenshot{{Title: "A"}, {Title: "B"}, {Title: "C"}})
	next, ok := g.Next(2)
	require.True(t, ok)
	assert.Equal(t, 0, next)
}

func TestRepeatedStepsVisitEveryIndex(t *testing.T) {
	g := New(shots(4))
	i := 0
	var seen []int
	for step := 0; step < 8; step++ {
		i, _ = g.Next(i)
		seen = append(seen, i)
	}
	assert.Equal(t, []int{1, 2, 3, 0, 1, 2, 3, 0}, seen)
}

func TestEmptyGallery(t *testing.T) {
	g := New(nil)
	assert.True(t, g.Empty())

	_, ok := g.Next(0)
	assert.False(t, ok)
	_, ok = g.Previous(0)
	assert.False(t, ok)
	_, ok = g.At(0)
	assert.False(t, ok)
	assert.Equal(t, "0 / 0", g.Position(0))
}

func TestPositionAndClamp(t *testing.T) {
	g := New(shots(3))
	assert.Equal(t, "1 / 3", g.Position(0))
	assert.Equal(t, "3 / 3", g.Position(7))

	shot, ok := g.At(-4)
	require.True(t, ok)
	assert.Equal(t, "A", shot.Title)
}

func TestNewCopiesInput(t *testing.T) {
	in := shots(2)
	g := New(in)
	in[0].Title = "mutated"

	shot, _ := g.At(0)
	assert.Equal(t, "A", shot.Title)
}

func TestDescribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 12, 7))))
	require.NoError(t, f.Close())

	info, err := Describe(path)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "png", Width: 12, Height: 7}, info)

	info, err = Describe("https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "remote", info.Format)

	_, err = Describe(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
