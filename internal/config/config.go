// Package config handles importer configuration loading and management.
package config

import (
	"fmt"
	"slices"
)

// Config holds all importer settings.
type Config struct {
	LDraw   LDrawConfig   `yaml:"ldraw"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// LDrawConfig describes the parts library.
type LDrawConfig struct {
	Directory          string `yaml:"directory"`           // empty = auto-detect
	LSynthDirectory    string `yaml:"lsynth_directory"`    // empty = <directory>/unofficial/lsynth
	StudLogoDirectory  string `yaml:"stud_logo_directory"` // optional extra folder of logo studs
	UseUnofficialParts bool   `yaml:"use_unofficial_parts"`
	UseLSynthParts     bool   `yaml:"use_lsynth_parts"`
	Resolution         string `yaml:"resolution"`    // Low, Standard, High
	ColourScheme       string `yaml:"colour_scheme"` // ldraw, alt, lgeo
}

// ImportConfig controls how a model is turned into objects.
type ImportConfig struct {
	Scale            float32 `yaml:"scale"`      // output units per LDraw unit at real scale 1
	RealScale        float32 `yaml:"real_scale"` // 1 = real brick size
	DefaultColour    string  `yaml:"default_colour"`
	LogoStuds        bool    `yaml:"logo_studs"`
	LogoStudVersion  string  `yaml:"logo_stud_version"`
	InstanceStuds    bool    `yaml:"instance_studs"`
	ResolveNormals   string  `yaml:"resolve_normals"` // guess, double
	Gaps             bool    `yaml:"gaps"`
	GapWidth         float32 `yaml:"gap_width"` // output units
	FlattenHierarchy bool    `yaml:"flatten_hierarchy"`
	FlattenGroups    bool    `yaml:"flatten_groups"`
	NumberNodes      bool    `yaml:"number_nodes"`
	ImportCameras    bool    `yaml:"import_cameras"`
	ZUp              bool    `yaml:"z_up"`
	PlaceOnGround    bool    `yaml:"place_on_ground"`
	MaxDepth         int     `yaml:"max_depth"`
}

// EffectiveScale returns the factor applied to LDraw coordinates.
func (c ImportConfig) EffectiveScale() float32 {
	return c.Scale * c.RealScale
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LDraw: LDrawConfig{
			UseUnofficialParts: true,
			UseLSynthParts:     true,
			Resolution:         "Standard",
			ColourScheme:       "lgeo",
		},
		Import: ImportConfig{
			Scale:           0.0004,
			RealScale:       1,
			DefaultColour:   "4",
			LogoStudVersion: "4",
			ResolveNormals:  "guess",
			Gaps:            true,
			GapWidth:        0.0002,
			NumberNodes:     true,
			ImportCameras:   true,
			ZUp:             true,
			PlaceOnGround:   true,
			MaxDepth:        64,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting outside its allowed values.
func (c *Config) Validate() error {
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"ldraw.resolution", c.LDraw.Resolution, []string{"Low", "Standard", "High"}},
		{"ldraw.colour_scheme", c.LDraw.ColourScheme, []string{"ldraw", "alt", "lgeo"}},
		{"import.resolve_normals", c.Import.ResolveNormals, []string{"guess", "double"}},
		{"import.logo_stud_version", c.Import.LogoStudVersion, []string{"3", "4", "5"}},
	}
	for _, ch := range checks {
		if !slices.Contains(ch.allowed, ch.value) {
			return fmt.Errorf("%s: %q is not one of %v", ch.name, ch.value, ch.allowed)
		}
	}
	if c.Import.Scale <= 0 || c.Import.RealScale <= 0 {
		return fmt.Errorf("import scale must be positive")
	}
	if c.Import.MaxDepth < 1 {
		return fmt.Errorf("import.max_depth must be at least 1")
	}
	return nil
}
