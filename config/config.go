package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/energy"
	"github.com/uyouii/splash-energy/report"
	"go.uber.org/multierr"
)

const EnvPrefix = "SPLASH"

// viper keys, shared with the cli flag names
const (
	KeyCameraPath      = "camera"
	KeyStickyPaperPath = "sticky-paper"
	KeyQuantumCount    = "quantum-count"
	KeyIncludeParts    = "include-parts"
	KeySamples         = "samples"
	KeySeed            = "seed"
	KeyLowerQuantile   = "lower-quantile"
	KeyUpperQuantile   = "upper-quantile"
	KeyHSCSplashes     = "hsc-splashes"
	KeySPSplashes      = "sp-splashes"
	KeyFormat          = "format"
	KeyPlotDir         = "plot-dir"
	KeyVerbose         = "verbose"
	KeyConfigFile      = "config"
)

type Config struct {
	CameraPath            string  `mapstructure:"camera" yaml:"camera"`
	StickyPaperPath       string  `mapstructure:"sticky-paper" yaml:"sticky-paper"`
	QuantumCount          int     `mapstructure:"quantum-count" yaml:"quantum-count"`
	IncludePartsInSummary bool    `mapstructure:"include-parts" yaml:"include-parts"`
	SampleCount           int     `mapstructure:"samples" yaml:"samples"`
	Seed                  uint64  `mapstructure:"seed" yaml:"seed"`
	LowerQuantile         float64 `mapstructure:"lower-quantile" yaml:"lower-quantile"`
	UpperQuantile         float64 `mapstructure:"upper-quantile" yaml:"upper-quantile"`
	HSCSplashes           int     `mapstructure:"hsc-splashes" yaml:"hsc-splashes"`
	SPSplashes            int     `mapstructure:"sp-splashes" yaml:"sp-splashes"`
	Format                string  `mapstructure:"format" yaml:"format"`
	PlotDir               string  `mapstructure:"plot-dir" yaml:"plot-dir"`
	Verbose               bool    `mapstructure:"verbose" yaml:"verbose"`
}

func Default() *Config {
	opts := energy.DefaultOptions()
	return &Config{
		SampleCount:   opts.SampleCount,
		LowerQuantile: opts.LowerQuantile,
		UpperQuantile: opts.UpperQuantile,
		HSCSplashes:   opts.HSCSplashes,
		SPSplashes:    opts.SPSplashes,
		Format:        report.FormatText,
	}
}

// NewViper returns a viper instance holding the defaults and reading SPLASH_*
// environment variables, e.g. SPLASH_LOWER_QUANTILE.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyCameraPath, d.CameraPath)
	v.SetDefault(KeyStickyPaperPath, d.StickyPaperPath)
	v.SetDefault(KeyQuantumCount, d.QuantumCount)
	v.SetDefault(KeyIncludeParts, d.IncludePartsInSummary)
	v.SetDefault(KeySamples, d.SampleCount)
	v.SetDefault(KeySeed, d.Seed)
	v.SetDefault(KeyLowerQuantile, d.LowerQuantile)
	v.SetDefault(KeyUpperQuantile, d.UpperQuantile)
	v.SetDefault(KeyHSCSplashes, d.HSCSplashes)
	v.SetDefault(KeySPSplashes, d.SPSplashes)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyPlotDir, d.PlotDir)
	v.SetDefault(KeyVerbose, d.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file named by the "config" key, then
// resolves and validates the configuration.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %v: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var err error
	if c.CameraPath == "" {
		err = multierr.Append(err, fmt.Errorf("camera csv path is empty: %w", common.ErrorInvalidArgs))
	}
	if c.StickyPaperPath == "" {
		err = multierr.Append(err, fmt.Errorf("sticky paper csv path is empty: %w", common.ErrorInvalidArgs))
	}
	if c.QuantumCount <= 0 {
		err = multierr.Append(err, fmt.Errorf("quantum count %d: %w", c.QuantumCount, common.ErrorInvalidValue))
	}
	if c.SampleCount <= 0 {
		err = multierr.Append(err, fmt.Errorf("sample count %d: %w", c.SampleCount, common.ErrorDegenerateInput))
	}
	if !(c.LowerQuantile >= 0 && c.LowerQuantile < c.UpperQuantile && c.UpperQuantile <= 1) {
		err = multierr.Append(err, fmt.Errorf("quantiles %v/%v: %w", c.LowerQuantile, c.UpperQuantile,
			common.ErrorInvalidValue))
	}
	if c.HSCSplashes <= 0 || c.SPSplashes < c.HSCSplashes {
		err = multierr.Append(err, fmt.Errorf("splash counts %d/%d: %w", c.HSCSplashes, c.SPSplashes,
			common.ErrorInvalidValue))
	}
	if !isFormat(c.Format) {
		err = multierr.Append(err, fmt.Errorf("format %q, want one of %v: %w", c.Format, report.Formats,
			common.ErrorInvalidArgs))
	}
	return err
}

func (c *Config) ToRequest() *energy.Request {
	return &energy.Request{
		CameraPath:      c.CameraPath,
		StickyPaperPath: c.StickyPaperPath,
		QuantumCount:    c.QuantumCount,
		IncludeParts:    c.IncludePartsInSummary,
		Options: energy.Options{
			SampleCount:   c.SampleCount,
			HSCSplashes:   c.HSCSplashes,
			SPSplashes:    c.SPSplashes,
			LowerQuantile: c.LowerQuantile,
			UpperQuantile: c.UpperQuantile,
		},
	}
}

func isFormat(format string) bool {
	for _, f := range report.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

