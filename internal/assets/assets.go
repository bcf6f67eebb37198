// Package assets loads externally authored images as textures and writes rendered frames
// to disk.
package assets

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/draw"

	"solar-system/internal/download"
	"solar-system/internal/texture"
)

// TextureCacheDir holds downloaded texture images, relative to the working directory.
const TextureCacheDir = "assets/textures/cache"

// Loader returns a texture loader like LoadTexture that also accepts http(s) URLs,
// downloading them once into cacheDir.
func Loader(ctx context.Context, cacheDir string) func(path string, width, height int) (*texture.Texture, error) {
	return func(path string, width, height int) (*texture.Texture, error) {
		if download.IsURL(path) {
			local, err := download.Fetch(ctx, path, cacheDir)
			if err != nil {
				return nil, err
			}
			path = local
		}
		return LoadTexture(path, width, height)
	}
}

// LoadTexture decodes the image at path and resamples it to width×height. A non-positive
// width or height keeps the source size.
func LoadTexture(path string, width, height int) (*texture.Texture, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("load texture %s: empty image", path)
	}
	if width <= 0 || height <= 0 || (b.Dx() == width && b.Dy() == height) {
		return texture.FromImage(img), nil
	}
	return texture.FromImage(Scale(img, width, height)), nil
}

// Scale resamples src to width×height with Catmull-Rom filtering.
func Scale(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG writes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
