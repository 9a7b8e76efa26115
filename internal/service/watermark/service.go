// Package watermark holds the state of one watermarking session: the open
// photo, its resolved date and the current style settings.
package watermark

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/photo-watermark/internal/model"
	"github.com/aliskhannn/photo-watermark/internal/output"
	"github.com/aliskhannn/photo-watermark/internal/processor"
)

var (
	ErrNoPhoto         = errors.New("no photo is open")
	ErrNoWatermarkText = errors.New("no watermark date for the open photo")
)

// resolver defines the interface for resolving the watermark date of a photo.
type resolver interface {
	Resolve(path string) (model.ResolvedDate, error)
}

// fileStorage defines the interface for reading photos and writing results.
type fileStorage interface {
	EnsureDir(dir string) error
	Save(path string, src io.Reader) (string, error)
	Load(path string) (*os.File, error)
}

// Service is a single-user watermarking session. It is not safe for concurrent use.
type Service struct {
	resolver    resolver
	fileStorage fileStorage
	settings    model.WatermarkSettings

	path string
	img  image.Image
	date model.ResolvedDate
}

// NewService creates a new Service with the given collaborators and initial settings.
func NewService(r resolver, fs fileStorage, settings model.WatermarkSettings) *Service {
	return &Service{
		resolver:    r,
		fileStorage: fs,
		settings:    settings,
		date:        model.NoDate,
	}
}

// Open decodes the photo at path and resolves its watermark date.
// On failure the session is left with no photo open.
func (s *Service) Open(path string) (model.ResolvedDate, error) {
	s.close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return model.NoDate, fmt.Errorf("open: failed to resolve path %s: %w", path, err)
	}

	f, err := s.fileStorage.Load(abs)
	if err != nil {
		return model.NoDate, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	img, err := processor.Decode(f)
	if err != nil {
		return model.NoDate, fmt.Errorf("open: %w", err)
	}

	date, err := s.resolver.Resolve(abs)
	if err != nil {
		return model.NoDate, fmt.Errorf("open: failed to resolve date: %w", err)
	}

	s.path, s.img, s.date = abs, img, date

	zlog.Logger.Info().
		Str("path", abs).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("photo opened")

	return date, nil
}

func (s *Service) close() {
	s.path, s.img, s.date = "", nil, model.NoDate
}

// Path returns the absolute path of the open photo, or "" when none is open.
func (s *Service) Path() string {
	return s.path
}

// Date returns the resolved watermark date of the open photo.
func (s *Service) Date() model.ResolvedDate {
	return s.date
}

// Settings returns the current watermark settings.
func (s *Service) Settings() model.WatermarkSettings {
	return s.settings
}

// UpdateSettings replaces the watermark settings after validating them.
func (s *Service) UpdateSettings(settings model.WatermarkSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.settings = settings

	return nil
}

// Preview renders the open photo with the current settings and scales the
// result down to fit maxWidth x maxHeight. Without a date the photo is
// previewed unmarked.
func (s *Service) Preview(maxWidth, maxHeight int) (image.Image, error) {
	if s.img == nil {
		return nil, ErrNoPhoto
	}

	text := ""
	if !s.date.Absent() {
		text = s.date.Value
	}

	rendered, err := processor.Render(s.img, text, s.settings)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	return processor.Preview(rendered, maxWidth, maxHeight), nil
}

// Save writes the watermarked copy of the open photo next to its folder
// and returns where it went. It refuses to write without a photo or a date.
func (s *Service) Save() (model.OutputPaths, error) {
	if s.img == nil {
		return model.OutputPaths{}, ErrNoPhoto
	}
	if s.date.Absent() {
		return model.OutputPaths{}, ErrNoWatermarkText
	}

	paths := output.Derive(s.path)
	if err := s.fileStorage.EnsureDir(paths.Dir); err != nil {
		return model.OutputPaths{}, fmt.Errorf("save: %w", err)
	}

	rendered, err := processor.Render(s.img, s.date.Value, s.settings)
	if err != nil {
		return model.OutputPaths{}, fmt.Errorf("save: %w", err)
	}

	format := output.FormatFor(s.path)

	buf := new(bytes.Buffer)
	if err := processor.Encode(buf, rendered, format); err != nil {
		return model.OutputPaths{}, fmt.Errorf("save: %w", err)
	}

	if _, err := s.fileStorage.Save(paths.File, buf); err != nil {
		return model.OutputPaths{}, fmt.Errorf("save: %w", err)
	}

	zlog.Logger.Info().
		Str("source", s.path).
		Str("output", paths.File).
		Str("format", format.String()).
		Str("date", s.date.Value).
		Msg("watermarked photo saved")

	return paths, nil
}
