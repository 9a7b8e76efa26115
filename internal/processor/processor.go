// Package processor draws the date watermark and encodes the result.
package processor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/aliskhannn/photo-watermark/internal/model"
)

// TextMetrics is the rendered size of a watermark string.
type TextMetrics struct {
	Width  int // advance width of the whole string
	Height int // line height: ascent, descent and line gap
	Ascent int // baseline to the top of the tallest glyphs
}

// Measure returns the metrics of text drawn with the default face at fontSize pixels.
func Measure(text string, fontSize int) (TextMetrics, error) {
	f, err := face(fontSize)
	if err != nil {
		return TextMetrics{}, err
	}

	return measure(f, text), nil
}

func measure(f font.Face, text string) TextMetrics {
	m := f.Metrics()

	return TextMetrics{
		Width:  font.MeasureString(f, text).Ceil(),
		Height: m.Height.Ceil(),
		Ascent: m.Ascent.Ceil(),
	}
}

// Layout returns the baseline origin of the text in image pixel space.
//
// Unknown positions are laid out like model.TopLeft. The result may lie
// outside the image when the margin is larger than the free space.
func Layout(pos model.Position, margin, width, height int, m TextMetrics) image.Point {
	switch pos {
	case model.Center:
		return image.Pt((width-m.Width)/2, (height-m.Height)/2+m.Ascent)
	case model.BottomRight:
		return image.Pt(width-m.Width-margin, height-margin)
	case model.TopLeft:
		fallthrough
	default:
		return image.Pt(margin, margin+m.Ascent)
	}
}

// Render returns a copy of src with text drawn according to s.
//
// src is never modified. The copy has the same width and height as src,
// with its origin moved to (0, 0), and keeps color and alpha of every pixel
// the text does not touch.
func Render(src image.Image, text string, s model.WatermarkSettings) (*image.NRGBA, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	f, err := face(s.FontSize)
	if err != nil {
		return nil, err
	}

	dst := imaging.Clone(src)
	if text == "" {
		return dst, nil
	}

	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	origin := Layout(s.Position, s.Margin, w, h, measure(f, text))

	// The glyph coverage is rasterized on its own layer so that untouched
	// pixels never pass through premultiplied color.
	layer := image.NewRGBA(dst.Bounds())
	dc := gg.NewContextForRGBA(layer)
	dc.SetFontFace(f)
	dc.SetColor(color.White)
	dc.DrawString(text, float64(origin.X), float64(origin.Y))

	over(dst, layer, s.Color.RGBA())

	return dst, nil
}

// over blends c into dst wherever mask has coverage, in non-premultiplied
// space. c must be opaque. mask and dst must share bounds.
func over(dst *image.NRGBA, mask *image.RGBA, c color.RGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := uint32(mask.Pix[mask.PixOffset(x, y)+3])
			if a == 0 {
				continue
			}

			i := dst.PixOffset(x, y)
			px := dst.Pix[i : i+4 : i+4]
			da := uint32(px[3])

			// Alpha and channel sums are scaled by 255.
			outA := a*255 + da*(255-a)
			mix := func(fg, bg uint8) uint8 {
				return uint8((uint32(fg)*a*255 + uint32(bg)*da*(255-a) + outA/2) / outA)
			}

			px[0] = mix(c.R, px[0])
			px[1] = mix(c.G, px[1])
			px[2] = mix(c.B, px[2])
			px[3] = uint8((outA + 127) / 255)
		}
	}
}
