// Package imageio converts between image files on disk and the float
// buffers processed by the denoiser. Pixel values use the [0, 255]
// range regardless of the source bit depth.
package imageio

import (
	"fmt"
	stdimage "image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	"da3d/pkg/image"
)

// Load decodes a PNG, JPEG or GIF file into a float image. Grayscale
// sources produce a single channel, everything else three.
func Load(path string) (*image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src, _, err := stdimage.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	switch src.(type) {
	case *stdimage.Gray, *stdimage.Gray16:
		img := image.New(height, width, 1)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, _, _, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				img.SetVal(x, y, 0, float32(r)/65535.0*255.0)
			}
		}
		return img, nil
	default:
		img := image.New(height, width, 3)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				img.SetVal(x, y, 0, float32(r)/65535.0*255.0)
				img.SetVal(x, y, 1, float32(g)/65535.0*255.0)
				img.SetVal(x, y, 2, float32(b)/65535.0*255.0)
			}
		}
		return img, nil
	}
}

// Save encodes a float image to the path, choosing the format from the
// extension (.png by default, .jpg/.jpeg for JPEG). Values are clamped
// to [0, 255].
func Save(path string, img *image.Image) error {
	if img.Channels() != 1 && img.Channels() != 3 {
		return fmt.Errorf("cannot encode image with %d channels", img.Channels())
	}

	var dst stdimage.Image
	if img.Channels() == 1 {
		gray := stdimage.NewGray(stdimage.Rect(0, 0, img.Columns(), img.Rows()))
		for y := 0; y < img.Rows(); y++ {
			for x := 0; x < img.Columns(); x++ {
				gray.SetGray(x, y, color.Gray{Y: quantize(img.Val(x, y, 0))})
			}
		}
		dst = gray
	} else {
		rgba := stdimage.NewRGBA(stdimage.Rect(0, 0, img.Columns(), img.Rows()))
		for y := 0; y < img.Rows(); y++ {
			for x := 0; x < img.Columns(); x++ {
				rgba.SetRGBA(x, y, color.RGBA{
					R: quantize(img.Val(x, y, 0)),
					G: quantize(img.Val(x, y, 1)),
					B: quantize(img.Val(x, y, 2)),
					A: 255,
				})
			}
		}
		dst = rgba
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(file, dst, &jpeg.Options{Quality: 95})
	default:
		return png.Encode(file, dst)
	}
}

// quantize rounds and clamps a float sample to an 8-bit value.
func quantize(v float32) uint8 {
	v += 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
