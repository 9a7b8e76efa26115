package processor

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// dpi makes one point equal one pixel, so font sizes are pixel sizes.
const dpi = 72

var (
	parseOnce sync.Once
	sans      *opentype.Font
	parseErr  error

	facesMu sync.Mutex
	faces   = make(map[int]font.Face)
)

// face returns the built-in sans-serif face at size pixels. Faces are cached per size.
func face(size int) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %d", size)
	}

	parseOnce.Do(func() {
		sans, parseErr = opentype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse font: %w", parseErr)
	}

	facesMu.Lock()
	defer facesMu.Unlock()

	if f, ok := faces[size]; ok {
		return f, nil
	}

	f, err := opentype.NewFace(sans, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load font face: %w", err)
	}
	faces[size] = f

	return f, nil
}
