package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/photo-watermark/internal/model"
)

// FallbackAsk makes the shell ask on the terminal when a photo has no EXIF date.
const FallbackAsk = "ask"

// Config holds the main configuration for the application.
type Config struct {
	Watermark Watermark `mapstructure:"watermark"`
	Preview   Preview   `mapstructure:"preview"`
	Date      Date      `mapstructure:"date"`
}

// Watermark holds the initial watermark style.
type Watermark struct {
	FontSize int    `mapstructure:"font_size"` // font size in pixels
	Color    string `mapstructure:"color"`     // "#RRGGBB" or a basic color name
	Position string `mapstructure:"position"`  // top_left, center or bottom_right
	Margin   int    `mapstructure:"margin"`    // distance from the edges in pixels
}

// Preview holds the bounding box of preview images.
type Preview struct {
	MaxWidth  int `mapstructure:"max_width"`
	MaxHeight int `mapstructure:"max_height"`
}

// Date defines what to do when a photo has no EXIF capture date.
type Date struct {
	Fallback string `mapstructure:"fallback"` // ask, file, manual or cancel
	Manual   string `mapstructure:"manual"`   // date used for the manual fallback
}

// Settings converts the configured style into watermark settings.
func (w Watermark) Settings() (model.WatermarkSettings, error) {
	c, err := model.ParseColor(w.Color)
	if err != nil {
		return model.WatermarkSettings{}, fmt.Errorf("watermark.color: %w", err)
	}

	p, err := model.ParsePosition(w.Position)
	if err != nil {
		return model.WatermarkSettings{}, fmt.Errorf("watermark.position: %w", err)
	}

	s := model.WatermarkSettings{FontSize: w.FontSize, Color: c, Position: p, Margin: w.Margin}
	if err := s.Validate(); err != nil {
		return model.WatermarkSettings{}, err
	}

	return s, nil
}

// flagBindings maps command-line flags to config keys.
var flagBindings = map[string]string{
	"font-size": "watermark.font_size",
	"color":     "watermark.color",
	"position":  "watermark.position",
	"margin":    "watermark.margin",
	"fallback":  "date.fallback",
	"date":      "date.manual",
}

// envBindings maps config keys to environment variables.
var envBindings = map[string]string{
	"watermark.font_size": "WATERMARK_FONT_SIZE",
	"watermark.color":     "WATERMARK_COLOR",
	"watermark.position":  "WATERMARK_POSITION",
	"watermark.margin":    "WATERMARK_MARGIN",
	"date.fallback":       "WATERMARK_DATE_FALLBACK",
}

// RegisterFlags adds the flags that override config values to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := model.DefaultSettings()

	fs.IntP("font-size", "s", d.FontSize, "watermark font size in pixels")
	fs.StringP("color", "c", d.Color.Hex(), "watermark color (#RRGGBB or name)")
	fs.StringP("position", "p", d.Position.String(), "watermark position: top_left, center, bottom_right")
	fs.IntP("margin", "m", d.Margin, "distance from the image edges in pixels")
	fs.String("fallback", FallbackAsk, "when EXIF has no date: ask, file, manual or cancel")
	fs.String("date", "", "date for the manual fallback (YYYY-MM-DD)")
}

func setDefaults(v *viper.Viper) {
	d := model.DefaultSettings()

	v.SetDefault("watermark.font_size", d.FontSize)
	v.SetDefault("watermark.color", d.Color.Hex())
	v.SetDefault("watermark.position", d.Position.String())
	v.SetDefault("watermark.margin", d.Margin)
	v.SetDefault("preview.max_width", 1024)
	v.SetDefault("preview.max_height", 768)
	v.SetDefault("date.fallback", FallbackAsk)
	v.SetDefault("date.manual", "")
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment variables and then the changed flags of fs (fs may be nil).
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if fs != nil {
		for name, key := range flagBindings {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Date.Fallback = strings.ToLower(strings.TrimSpace(cfg.Date.Fallback))

	return &cfg, nil
}

// MustLoad is Load that panics if the configuration cannot be loaded.
func MustLoad(path string, fs *pflag.FlagSet) *Config {
	cfg, err := Load(path, fs)
	if err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to load config")
	}

	return cfg
}
