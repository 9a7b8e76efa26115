package date

import (
	"fmt"
	"strings"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/photo-watermark/internal/model"
)

// Choice is the user's answer when a photo has no EXIF date.
type Choice int

const (
	ChoiceCancel Choice = iota
	ChoiceFileDate
	ChoiceManual
)

// String returns the flag name of the choice.
func (c Choice) String() string {
	switch c {
	case ChoiceFileDate:
		return "file"
	case ChoiceManual:
		return "manual"
	default:
		return "cancel"
	}
}

// ParseChoice parses "file", "manual" or "cancel".
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file":
		return ChoiceFileDate, nil
	case "manual":
		return ChoiceManual, nil
	case "cancel":
		return ChoiceCancel, nil
	default:
		return ChoiceCancel, fmt.Errorf("unknown fallback %q", s)
	}
}

// Prompter asks the user how to date a photo without EXIF metadata.
type Prompter interface {
	// ChooseFallback picks between the file creation date, manual entry and cancel.
	ChooseFallback(path string) (Choice, error)
	// EnterDate asks for a date. ok is false when the user cancelled the entry.
	EnterDate(path, suggested string) (value string, ok bool, err error)
}

// Resolver runs the date fallback chain for an opened photo.
type Resolver struct {
	prompter Prompter

	exifDate func(path string) (time.Time, bool)
	fileDate func(path string) (time.Time, error)
	now      func() time.Time
}

// NewResolver creates a Resolver that consults p when EXIF has no date.
func NewResolver(p Prompter) *Resolver {
	return &Resolver{
		prompter: p,
		exifDate: CaptureDate,
		fileDate: FromFileAttributes,
		now:      time.Now,
	}
}

// Resolve returns the watermark date for the photo at path.
//
// The EXIF date wins. Without it the prompter decides between the file
// creation date, a manually entered value and cancel. An empty manual entry
// falls back to the file creation date. Cancel yields model.NoDate.
func (r *Resolver) Resolve(path string) (model.ResolvedDate, error) {
	if t, ok := r.exifDate(path); ok {
		return r.resolved(path, t.Format(model.DateLayout), model.SourceExif), nil
	}

	zlog.Logger.Info().Str("path", path).Msg("no exif capture date, asking for fallback")

	choice, err := r.prompter.ChooseFallback(path)
	if err != nil {
		return model.NoDate, fmt.Errorf("choose date fallback: %w", err)
	}

	switch choice {
	case ChoiceFileDate:
		return r.fromFile(path)
	case ChoiceManual:
		value, ok, err := r.prompter.EnterDate(path, r.now().Format(model.DateLayout))
		if err != nil {
			return model.NoDate, fmt.Errorf("enter date: %w", err)
		}

		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return r.fromFile(path)
		}

		return r.resolved(path, value, model.SourceManual), nil
	default:
		zlog.Logger.Info().Str("path", path).Msg("date selection cancelled")
		return model.NoDate, nil
	}
}

func (r *Resolver) fromFile(path string) (model.ResolvedDate, error) {
	t, err := r.fileDate(path)
	if err != nil {
		return model.NoDate, fmt.Errorf("file creation date: %w", err)
	}

	return r.resolved(path, t.Local().Format(model.DateLayout), model.SourceFile), nil
}

func (r *Resolver) resolved(path, value string, source model.DateSource) model.ResolvedDate {
	zlog.Logger.Info().
		Str("path", path).
		Str("source", string(source)).
		Str("date", value).
		Msg("watermark date resolved")

	return model.ResolvedDate{Value: value, Source: source}
}
