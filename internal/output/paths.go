// Package output derives where watermarked copies are written.
package output

import (
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/aliskhannn/photo-watermark/internal/model"
)

const suffix = "_watermark"

// Dir returns the output directory for src: a directory inside the source's
// parent, named after the parent with the "_watermark" suffix.
//
// Dir does no I/O. src should be absolute.
func Dir(src string) string {
	parent := filepath.Dir(src)

	return filepath.Join(parent, filepath.Base(parent)+suffix)
}

// File returns the output file path for src inside Dir(src).
func File(src string) string {
	stem, ext := splitExt(filepath.Base(src))

	return filepath.Join(Dir(src), stem+suffix+ext)
}

// Derive returns both output paths for src.
func Derive(src string) model.OutputPaths {
	return model.OutputPaths{Dir: Dir(src), File: File(src)}
}

// splitExt splits name on its last dot. A leading dot does not start an extension.
func splitExt(name string) (stem, ext string) {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		return name, ""
	}

	return name[:dot], name[dot:]
}

// FormatFor picks the encoder for the output of src. PNG sources stay PNG,
// everything else is written as JPEG.
func FormatFor(src string) imaging.Format {
	if strings.EqualFold(filepath.Ext(src), ".png") {
		return imaging.PNG
	}

	return imaging.JPEG
}
