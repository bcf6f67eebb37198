package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-system/internal/config"
)

func smallSystem() *config.System {
	cfg := config.Default()
	cfg.Texture.Width, cfg.Texture.Height = 16, 8
	cfg.Mesh.Rings, cfg.Mesh.Segments = 6, 12
	return cfg
}

func TestSnapWritesSequence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	err := snap(context.Background(), slog.New(slog.DiscardHandler), smallSystem(), job{
		Frames: 3, Step: 0.5, Width: 40, Height: 30, Out: dir, BirdsEye: true, Bloom: 1, Workers: 2,
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	img, err := imgio.Open(filepath.Join(dir, "frame-0002.png"))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestSnapRejectsBadJobs(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	assert.Error(t, snap(context.Background(), log, smallSystem(), job{Frames: 0, Width: 8, Height: 8}))
	assert.Error(t, snap(context.Background(), log, smallSystem(), job{Frames: 1, Width: 0, Height: 8, Out: t.TempDir()}))
}
