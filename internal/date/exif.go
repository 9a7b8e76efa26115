// Package date resolves the capture date printed on a watermark.
package date

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifTimeLayout is the fixed EXIF date/time text form.
const exifTimeLayout = "2006:01:02 15:04:05"

// dateFields lists the date tags in lookup order.
var dateFields = []exif.FieldName{exif.DateTimeOriginal, exif.DateTime}

// CaptureDate returns the EXIF capture date of the photo at path.
//
// DateTimeOriginal is preferred, then the generic DateTime tag. Any failure
// to open the file or decode its metadata is reported as "not found".
func CaptureDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	return CaptureDateFrom(f)
}

// CaptureDateFrom is CaptureDate for an already opened image stream.
func CaptureDateFrom(r io.Reader) (t time.Time, ok bool) {
	// goexif panics on some truncated tag tables.
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()

	x, err := exif.Decode(r)
	if err != nil {
		return time.Time{}, false
	}

	loc := time.Local
	if tz, err := x.TimeZone(); err == nil && tz != nil {
		loc = tz
	}

	// Sub-IFD fields are loaded after IFD0 and take precedence for the same
	// tag. A present but unparsable tag moves on to the next one.
	for _, name := range dateFields {
		if t, ok := parseField(x, name, loc); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseField(x *exif.Exif, name exif.FieldName, loc *time.Location) (time.Time, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return time.Time{}, false
	}
	s, err := tag.StringVal()
	if err != nil {
		return time.Time{}, false
	}
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))

	t, err := time.ParseInLocation(exifTimeLayout, s, loc)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}

	return t, true
}
