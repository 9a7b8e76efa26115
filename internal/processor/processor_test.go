package processor

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/aliskhannn/photo-watermark/internal/model"
)

func TestLayout(t *testing.T) {
	m := TextMetrics{Width: 40, Height: 20, Ascent: 15}

	cases := []struct {
		name   string
		pos    model.Position
		margin int
		w, h   int
		want   image.Point
	}{
		{name: "top left", pos: model.TopLeft, margin: 16, w: 200, h: 100, want: image.Pt(16, 31)},
		{name: "center ignores margin", pos: model.Center, margin: 99, w: 200, h: 100, want: image.Pt(80, 55)},
		{name: "center odd sizes round down", pos: model.Center, w: 201, h: 101, want: image.Pt(80, 55)},
		{name: "bottom right", pos: model.BottomRight, margin: 16, w: 200, h: 100, want: image.Pt(144, 84)},
		{name: "bottom right off canvas", pos: model.BottomRight, margin: 300, w: 200, h: 100, want: image.Pt(-140, -200)},
		{name: "unknown position", pos: model.Position(42), margin: 16, w: 200, h: 100, want: image.Pt(16, 31)},
		{name: "negative position", pos: model.Position(-1), margin: 3, w: 10, h: 10, want: image.Pt(3, 18)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Layout(tc.pos, tc.margin, tc.w, tc.h, m)
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestLayoutUnknownMatchesTopLeft(t *testing.T) {
	m := TextMetrics{Width: 123, Height: 30, Ascent: 22}
	for _, margin := range []int{0, 1, 16, 500} {
		want := Layout(model.TopLeft, margin, 640, 480, m)
		if got := Layout(model.Position(7), margin, 640, 480, m); got != want {
			t.Fatalf("margin %d: expected %v, got %v", margin, want, got)
		}
	}
}

func TestMeasure(t *testing.T) {
	small, err := Measure("2023-07-14", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	large, err := Measure("2023-07-14", 48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if small.Width <= 0 || small.Height <= 0 || small.Ascent <= 0 {
		t.Fatalf("expected positive metrics, got %+v", small)
	}
	if small.Ascent > small.Height {
		t.Fatalf("expected ascent within line height, got %+v", small)
	}
	if large.Width <= small.Width || large.Height <= small.Height {
		t.Fatalf("expected larger metrics for larger font: %+v vs %+v", large, small)
	}

	if _, err := Measure("x", 0); err == nil {
		t.Fatal("expected error for zero font size")
	}
}

func TestRenderDoesNotMutateSource(t *testing.T) {
	src := checkerboard(120, 80)
	before := append([]uint8(nil), src.Pix...)

	dst, err := Render(src, "2023-07-14", model.WatermarkSettings{
		FontSize: 20,
		Color:    model.Color{R: 255},
		Position: model.Center,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(before, src.Pix) {
		t.Fatal("source pixels changed")
	}
	if dst.Bounds().Dx() != 120 || dst.Bounds().Dy() != 80 {
		t.Fatalf("expected 120x80, got %v", dst.Bounds())
	}
	if !differs(src, dst) {
		t.Fatal("expected watermark pixels in output")
	}
}

func TestRenderDrawsColor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	fill(src, color.NRGBA{A: 255})

	dst, err := Render(src, "8888", model.WatermarkSettings{
		FontSize: 40,
		Color:    model.Color{G: 255},
		Position: model.TopLeft,
		Margin:   4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var green int
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			c := dst.NRGBAAt(x, y)
			if c.R != 0 || c.B != 0 {
				t.Fatalf("unexpected color %v at %d,%d", c, x, y)
			}
			if c.G > 200 {
				green++
			}
		}
	}
	if green == 0 {
		t.Fatal("expected text pixels in the configured color")
	}
}

func TestRenderOffCanvas(t *testing.T) {
	src := checkerboard(50, 30)

	dst, err := Render(src, "2023-07-14", model.WatermarkSettings{
		FontSize: 16,
		Color:    model.Color{R: 255, G: 255, B: 255},
		Position: model.BottomRight,
		Margin:   1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if differs(src, dst) {
		t.Fatal("expected text fully outside the image")
	}
}

func TestRenderKeepsSizeOfSubImage(t *testing.T) {
	full := checkerboard(100, 100)
	src := full.SubImage(image.Rect(10, 20, 70, 60))

	dst, err := Render(src, "", model.DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst.Bounds() != image.Rect(0, 0, 60, 40) {
		t.Fatalf("expected 60x40 at origin, got %v", dst.Bounds())
	}
	if differs(src, dst) {
		t.Fatal("expected an exact copy for empty text")
	}
}

func TestRenderKeepsTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 20))

	dst, err := Render(src, "", model.DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a := dst.NRGBAAt(5, 5).A; a != 0 {
		t.Fatalf("expected transparent pixel, got alpha %d", a)
	}
}

func TestRenderKeepsSemiTransparentColor(t *testing.T) {
	faint := color.NRGBA{R: 100, G: 200, B: 50, A: 2}
	src := image.NewNRGBA(image.Rect(0, 0, 120, 60))
	fill(src, faint)

	cases := []struct {
		name string
		text string
		s    model.WatermarkSettings
	}{
		{name: "empty text", text: "", s: model.DefaultSettings()},
		{
			name: "text off canvas",
			text: "2023-07-14",
			s:    model.WatermarkSettings{FontSize: 16, Color: model.Color{R: 255}, Position: model.BottomRight, Margin: 1000},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dst, err := Render(src, tc.text, tc.s)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for y := 0; y < 60; y++ {
				for x := 0; x < 120; x++ {
					if c := dst.NRGBAAt(x, y); c != faint {
						t.Fatalf("expected %v at %d,%d, got %v", faint, x, y, c)
					}
				}
			}
		})
	}
}

func TestRenderTextOverSemiTransparentPixels(t *testing.T) {
	faint := color.NRGBA{R: 100, G: 200, B: 50, A: 2}
	src := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	fill(src, faint)

	dst, err := Render(src, "8888", model.WatermarkSettings{
		FontSize: 40,
		Color:    model.Color{R: 255},
		Position: model.TopLeft,
		Margin:   4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var solid, kept int
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			c := dst.NRGBAAt(x, y)
			switch {
			case c == faint:
				kept++
			case c.A > 200 && c.R > 200 && c.G == 0 && c.B == 0:
				solid++
			case c.A < faint.A:
				t.Fatalf("alpha dropped below the source at %d,%d: %v", x, y, c)
			}
		}
	}
	if solid == 0 {
		t.Fatal("expected fully covered text pixels in the configured color")
	}
	if kept == 0 {
		t.Fatal("expected untouched pixels around the text")
	}
}

func TestRenderRejectsInvalidSettings(t *testing.T) {
	src := checkerboard(10, 10)

	cases := []model.WatermarkSettings{
		{FontSize: 0},
		{FontSize: 12, Margin: -1},
	}
	for _, s := range cases {
		if _, err := Render(src, "x", s); err == nil {
			t.Fatalf("expected error for %+v", s)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	src := checkerboard(32, 16)

	for _, format := range []imaging.Format{imaging.JPEG, imaging.PNG} {
		var buf bytes.Buffer
		if err := Encode(&buf, src, format); err != nil {
			t.Fatalf("encode %s: %v", format, err)
		}

		img, err := Decode(&buf)
		if err != nil {
			t.Fatalf("decode %s: %v", format, err)
		}
		if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 {
			t.Fatalf("%s: expected 32x16, got %v", format, img.Bounds())
		}
	}

	if _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPreview(t *testing.T) {
	src := checkerboard(400, 200)

	got := Preview(src, 100, 100)
	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 50 {
		t.Fatalf("expected 100x50, got %v", got.Bounds())
	}

	got = Preview(src, 1000, 1000)
	if got.Bounds().Dx() != 400 || got.Bounds().Dy() != 200 {
		t.Fatalf("expected no upscaling, got %v", got.Bounds())
	}

	got = Preview(src, 0, 0)
	if got.Bounds().Dx() != 400 {
		t.Fatalf("expected unscaled copy, got %v", got.Bounds())
	}
}

func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 30, G: 60, B: 90, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 180, B: 160, A: 255})
			}
		}
	}

	return img
}

func fill(img *image.NRGBA, c color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// differs compares src and dst pixel by pixel, aligning their origins.
func differs(src image.Image, dst *image.NRGBA) bool {
	sb := src.Bounds()
	for y := 0; y < sb.Dy(); y++ {
		for x := 0; x < sb.Dx(); x++ {
			want := color.NRGBAModel.Convert(src.At(sb.Min.X+x, sb.Min.Y+y)).(color.NRGBA)
			if dst.NRGBAAt(x, y) != want {
				return true
			}
		}
	}

	return false
}
