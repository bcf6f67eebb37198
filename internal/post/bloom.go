// Package post applies image-space effects to finished frames.
package post

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
)

// Bloom adds a blurred copy of the pixels brighter than threshold (relative luminance in
// [0,1]) back onto img. A non-positive radius returns a plain copy.
func Bloom(img image.Image, threshold, radius float64) *image.RGBA {
	if radius <= 0 {
		return adjust.Apply(img, func(c color.RGBA) color.RGBA { return c })
	}
	bright := adjust.Apply(img, func(c color.RGBA) color.RGBA {
		if luminance(c) < threshold {
			return color.RGBA{A: c.A}
		}
		return c
	})
	return blend.Add(img, blur.Gaussian(bright, radius))
}

func luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
