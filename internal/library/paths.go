// Package library locates and reads files in an LDraw parts library.
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

// Library errors.
var (
	ErrNotFound     = errors.New("file not found in LDraw library")
	ErrNoInstallDir = errors.New("LDraw installation not found")
)

// Primitive resolution tiers.
const (
	ResolutionLow      = "Low"
	ResolutionStandard = "Standard"
	ResolutionHigh     = "High"
)

// Options selects which library folders are searched.
type Options struct {
	Root          string // install directory holding LDConfig.ldr
	StudLogoDir   string // extra folder with logo studs, may be empty
	LSynthDir     string // empty means <root>/unofficial/lsynth
	Resolution    string // Low, Standard or High
	UseUnofficial bool
	UseLSynth     bool
	LogoStuds     bool
}

// SearchPaths returns the existing library folders in search order.
func SearchPaths(opts Options) []string {
	var paths []string
	seen := make(map[string]bool)
	add := func(elem ...string) {
		p := filepath.Join(elem...)
		if seen[p] {
			return
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	// primitive folders in resolution order
	prims := func(elem ...string) {
		switch opts.Resolution {
		case ResolutionHigh:
			add(append(elem, "48")...)
		case ResolutionLow:
			add(append(elem, "8")...)
		}
		add(elem...)
	}

	root := opts.Root
	add(root, "models")
	add(root, "parts")
	add(root, "parts", "s")

	if opts.LogoStuds && opts.StudLogoDir != "" {
		if opts.Resolution == ResolutionLow {
			add(opts.StudLogoDir, "8")
		}
		add(opts.StudLogoDir)
	}

	if opts.UseUnofficial {
		add(root, "unofficial", "parts")
		prims(root, "unofficial", "p")
		add(root, "tente", "parts")
		prims(root, "tente", "p")
	}

	if opts.UseLSynth {
		if opts.LSynthDir != "" {
			add(opts.LSynthDir)
		} else {
			add(root, "unofficial", "lsynth")
		}
	}

	add(root, "parts")
	prims(root, "p")
	return paths
}

// InstallDirCandidates returns the usual install locations for this OS.
func InstallDirCandidates() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\LDraw`,
			`C:\Program Files\LDraw`,
			`C:\Program Files (x86)\LDraw`,
			`C:\Program Files\Studio 2.0\ldraw`,
		}
	case "darwin":
		return []string{
			"~/ldraw",
			"/Applications/LDraw",
			"/Applications/ldraw",
			"/usr/local/share/ldraw",
			"/Applications/Studio 2.0/ldraw",
		}
	default:
		return []string{
			"~/LDraw",
			"~/ldraw",
			"~/.LDraw",
			"~/.ldraw",
			"/usr/local/share/ldraw",
		}
	}
}

// FindInstallDir returns configured, with "~" expanded, if it holds
// LDConfig.ldr. An empty configured value searches InstallDirCandidates.
func FindInstallDir(configured string) (string, error) {
	candidates := InstallDirCandidates()
	if configured != "" {
		candidates = []string{configured}
	}

	for _, dir := range candidates {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			continue
		}
		if isFile(filepath.Join(expanded, "LDConfig.ldr")) {
			return expanded, nil
		}
	}

	if configured != "" {
		return "", fmt.Errorf("%w: no LDConfig.ldr in %s", ErrNoInstallDir, configured)
	}
	return "", ErrNoInstallDir
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
