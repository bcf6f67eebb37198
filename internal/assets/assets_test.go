package assets

import (
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "red.png")
	red := color.RGBA{R: 220, G: 10, B: 30, A: 255}
	require.NoError(t, SavePNG(path, solidImage(8, 4, red)))

	tex, err := LoadTexture(path, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, tex.Width())
	assert.Equal(t, 4, tex.Height())
	assert.Equal(t, red, tex.At(3, 2))
}

func TestLoadScales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blue.png")
	blue := color.RGBA{B: 200, A: 255}
	require.NoError(t, SavePNG(path, solidImage(8, 4, blue)))

	tex, err := LoadTexture(path, 32, 16)
	require.NoError(t, err)
	assert.Equal(t, 32, tex.Width())
	assert.Equal(t, 16, tex.Height())
	c := tex.At(16, 8)
	assert.InDelta(t, 200, float64(c.B), 1)
	assert.InDelta(t, 0, float64(c.R), 1)
}

func TestLoadMissing(t *testing.T) {
	_, err := LoadTexture(filepath.Join(t.TempDir(), "nope.png"), 4, 2)
	assert.ErrorContains(t, err, "nope.png")
}

func TestLoaderFetchesURLs(t *testing.T) {
	src := filepath.Join(t.TempDir(), "green.png")
	green := color.RGBA{G: 180, A: 255}
	require.NoError(t, SavePNG(src, solidImage(4, 2, green)))
	data, err := os.ReadFile(src)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	cache := t.TempDir()
	load := Loader(context.Background(), cache)
	tex, err := load(srv.URL+"/green.png", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, green, tex.At(1, 1))

	entries, err := os.ReadDir(cache)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	local, err := load(src, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, local.Width())
}
