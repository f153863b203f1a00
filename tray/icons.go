package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

var (
	iconEnabled []byte
	iconMuted   []byte
)

func init() {
	amber := color.RGBA{R: 255, G: 176, B: 46, A: 255}
	gray := color.RGBA{R: 110, G: 110, B: 110, A: 255}
	iconEnabled = renderIcon(22, &amber)
	iconMuted = renderIcon(22, &gray)
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic("encodePNG: " + err.Error())
	}
	return buf.Bytes()
}

// renderIcon draws a keycap: a dark rounded square with a colored dot.
func renderIcon(size int, dot *color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	s := float64(size)
	corner := s / 4.5
	dotR := s / 6.5
	cx, cy := s/2, s/2

	for y := range size {
		for x := range size {
			fx, fy := float64(x)+0.5, float64(y)+0.5

			// Rounded-rect coverage: distance from the inner box.
			dx := math.Max(math.Max(corner-fx, fx-(s-corner)), 0)
			dy := math.Max(math.Max(corner-fy, fy-(s-corner)), 0)
			if math.Hypot(dx, dy) > corner-1 {
				continue
			}

			if dot != nil && math.Hypot(fx-cx, fy-cy) <= dotR {
				img.Set(x, y, dot)
			} else {
				img.Set(x, y, color.RGBA{R: 30, G: 30, B: 34, A: 255})
			}
		}
	}
	return encodePNG(img)
}
