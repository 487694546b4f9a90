package config

import "flag"

// Flags holds command-line overrides registered on a FlagSet.
type Flags struct {
	Config     *string
	Debug      *bool
	LDraw      *string
	Scheme     *string
	Resolution *string
	Normals    *string
	Flatten    *bool
	NoCameras  *bool
	NoGaps     *bool
	LogoStuds  *bool
}

// RegisterFlags adds the shared importer flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Config:     fs.String("config", "", "Path to config file"),
		Debug:      fs.Bool("debug", false, "Enable debug logging"),
		LDraw:      fs.String("ldraw", "", "LDraw library directory"),
		Scheme:     fs.String("scheme", "", "Colour scheme (ldraw, alt, lgeo)"),
		Resolution: fs.String("resolution", "", "Primitive resolution (Low, Standard, High)"),
		Normals:    fs.String("normals", "", "Ambiguous normals (guess, double)"),
		Flatten:    fs.Bool("flatten", false, "Put every part directly under the root"),
		NoCameras:  fs.Bool("no-cameras", false, "Skip LeoCAD cameras"),
		NoGaps:     fs.Bool("no-gaps", false, "Do not shrink parts to show gaps"),
		LogoStuds:  fs.Bool("logo-studs", false, "Use studs with the logo"),
	}
}

// ConfigPath returns the explicit config path, if any.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.Config
}

// apply copies set flags onto cfg.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.Debug {
		cfg.Logging.Level = "debug"
	}
	if *f.LDraw != "" {
		cfg.LDraw.Directory = *f.LDraw
	}
	if *f.Scheme != "" {
		cfg.LDraw.ColourScheme = *f.Scheme
	}
	if *f.Resolution != "" {
		cfg.LDraw.Resolution = *f.Resolution
	}
	if *f.Normals != "" {
		cfg.Import.ResolveNormals = *f.Normals
	}
	if *f.Flatten {
		cfg.Import.FlattenHierarchy = true
	}
	if *f.NoCameras {
		cfg.Import.ImportCameras = false
	}
	if *f.NoGaps {
		cfg.Import.Gaps = false
	}
	if *f.LogoStuds {
		cfg.Import.LogoStuds = true
	}
}
