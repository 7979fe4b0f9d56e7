package studio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// SketchStyle selects the rendering of a converted sketch.
type SketchStyle string

const (
	SketchTechnical SketchStyle = "technical"
	SketchPencil    SketchStyle = "pencil"
	SketchInk       SketchStyle = "ink"
)

// maxSketchDim bounds the working resolution; larger inputs are scaled
// down before edge detection.
const maxSketchDim = 1024

// ConvertToSketch renders a product photo as a line sketch. detailLevel
// 0.1..1.0 controls how faint an edge still draws.
func ConvertToSketch(imageData []byte, style SketchStyle, detailLevel float64) ([]byte, error) {
	if detailLevel <= 0 {
		detailLevel = 0.5
	}
	if detailLevel > 1 {
		detailLevel = 1
	}

	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	gray := toGray(scaleDown(src))
	edges := sobel(gray)

	var out *image.Gray
	switch style {
	case SketchPencil:
		out = pencilRender(gray, edges, detailLevel)
	case SketchInk:
		out = thresholdRender(edges, detailLevel, 80)
	default:
		out = thresholdRender(edges, detailLevel, 0)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode sketch: %w", err)
	}
	return buf.Bytes(), nil
}

func scaleDown(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSketchDim && h <= maxSketchDim {
		return src
	}
	scale := float64(maxSketchDim) / float64(max(w, h))
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// sobel computes gradient magnitude per pixel, normalised to 0..255.
func sobel(gray *image.Gray) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(b)

	at := func(x, y int) float64 {
		if x < b.Min.X {
			x = b.Min.X
		}
		if x >= b.Max.X {
			x = b.Max.X - 1
		}
		if y < b.Min.Y {
			y = b.Min.Y
		}
		if y >= b.Max.Y {
			y = b.Max.Y - 1
		}
		return float64(gray.GrayAt(x, y).Y)
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			mag := math.Sqrt(gx*gx+gy*gy) / 4
			if mag > 255 {
				mag = 255
			}
			out.SetGray(x, y, color.Gray{Y: uint8(mag)})
		}
	}
	return out
}

// thresholdRender draws edges above the detail threshold as dark lines
// on white. minThreshold raises the floor for heavier ink styles.
func thresholdRender(edges *image.Gray, detailLevel float64, minThreshold float64) *image.Gray {
	// Higher detail keeps fainter edges.
	threshold := 150 - detailLevel*120
	if threshold < minThreshold {
		threshold = minThreshold
	}

	b := edges.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if float64(edges.GrayAt(x, y).Y) >= threshold {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// pencilRender blends soft inverted shading with the edge map.
func pencilRender(gray, edges *image.Gray, detailLevel float64) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			shade := 255 - (255-float64(gray.GrayAt(x, y).Y))*0.35
			line := float64(edges.GrayAt(x, y).Y) * detailLevel
			v := shade - line
			if v < 0 {
				v = 0
			}
			out.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return out
}
