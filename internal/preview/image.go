package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// ToGray converts a map indexed [x][y] with values in [0,1] into an 8-bit
// grayscale image. Values outside [0,1] are clamped.
func ToGray(m [][]float64) *image.Gray {
	width := len(m)
	height := 0
	if width > 0 {
		height = len(m[0])
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.SetGray(x, y, color.Gray{Y: uint8(clamp01(m[x][y])*255 + 0.5)})
		}
	}
	return img
}

// Stretch rescales a map in place so that its minimum becomes 0 and its
// maximum 1. A constant map is left unchanged.
func Stretch(m [][]float64) {
	lo, hi := 0.0, 0.0
	first := true
	for x := range m {
		for _, v := range m[x] {
			if first || v < lo {
				lo = v
			}
			if first || v > hi {
				hi = v
			}
			first = false
		}
	}

	span := hi - lo
	if span <= 0 {
		return
	}
	for x := range m {
		for y := range m[x] {
			m[x][y] = (m[x][y] - lo) / span
		}
	}
}

// GaussianBlur softens a preview. The sigma parameter controls the blur radius.
func GaussianBlur(img *image.Gray, sigma float32) *image.Gray {
	if sigma <= 0 {
		return img
	}

	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(dst, img)

	return dst
}

// Upscale enlarges img by an integer factor with Catmull-Rom resampling.
func Upscale(img *image.Gray, factor int) *image.Gray {
	if factor <= 1 {
		return img
	}

	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	return dst
}

// WritePNG encodes img to path, creating parent directories as needed.
func WritePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
