package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/photo-watermark/internal/config"
	"github.com/aliskhannn/photo-watermark/internal/date"
	"github.com/aliskhannn/photo-watermark/internal/output"
	"github.com/aliskhannn/photo-watermark/internal/processor"
	"github.com/aliskhannn/photo-watermark/internal/prompt"
	"github.com/aliskhannn/photo-watermark/internal/service/watermark"
	"github.com/aliskhannn/photo-watermark/internal/storage/file"
)

const defaultConfigPath = "./config/config.yml"

func main() {
	// Initialize logger.
	zlog.Init()

	// Parse command-line flags; style flags override the config file.
	fs := pflag.NewFlagSet("photo-watermark", pflag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to the YAML config file")
	previewPath := fs.String("preview", "", "write a scaled preview of the result to this path")
	dryRun := fs.Bool("dry-run", false, "resolve the date and write the preview without saving")
	config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: photo-watermark [flags] <photo>\n\n%s", fs.FlagUsages())
	}
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	// A missing default config file is fine, an explicitly named one is not.
	path := *configPath
	if !fs.Changed("config") {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}

	// Load configuration.
	cfg := config.MustLoad(path, fs)

	if err := run(cfg, fs.Arg(0), *previewPath, *dryRun); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to watermark photo")
		os.Exit(1)
	}
}

func run(cfg *config.Config, photo, previewPath string, dryRun bool) error {
	// Initial watermark settings.
	settings, err := cfg.Watermark.Settings()
	if err != nil {
		return err
	}

	prompter, err := newPrompter(cfg.Date)
	if err != nil {
		return err
	}

	// Wire the session.
	storage := file.NewStorage()
	svc := watermark.NewService(date.NewResolver(prompter), storage, settings)

	resolved, err := svc.Open(photo)
	if err != nil {
		return err
	}
	if resolved.Absent() {
		zlog.Logger.Warn().Str("path", svc.Path()).Msg("no watermark date, the photo will not be saved")
	}

	if previewPath != "" {
		if err := writePreview(svc, storage, previewPath, cfg.Preview); err != nil {
			return err
		}
	}

	if dryRun {
		return nil
	}

	paths, err := svc.Save()
	if err != nil {
		if errors.Is(err, watermark.ErrNoWatermarkText) {
			return fmt.Errorf("nothing saved: %w", err)
		}
		return err
	}

	fmt.Println(paths.File)

	return nil
}

// newPrompter picks the terminal or a fixed answer for photos without an EXIF date.
func newPrompter(d config.Date) (date.Prompter, error) {
	if d.Fallback == config.FallbackAsk {
		return prompt.NewTerminal(os.Stdin, os.Stderr), nil
	}

	choice, err := date.ParseChoice(d.Fallback)
	if err != nil {
		return nil, fmt.Errorf("date.fallback: %w", err)
	}

	return prompt.Fixed{Choice: choice, Date: d.Manual}, nil
}

func writePreview(svc *watermark.Service, storage *file.Storage, path string, box config.Preview) error {
	img, err := svc.Preview(box.MaxWidth, box.MaxHeight)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := processor.Encode(buf, img, output.FormatFor(path)); err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	if err := storage.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if _, err := storage.Save(path, buf); err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	zlog.Logger.Info().Str("preview", path).Msg("preview written")

	return nil
}
