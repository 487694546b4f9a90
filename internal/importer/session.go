// Package importer runs one LDraw import end to end: it locates and parses
// files, loads the reference tree, bakes meshes and builds the object tree.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chewxy/math32"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/Faultbox/ldrawkit/internal/cache"
	"github.com/Faultbox/ldrawkit/internal/config"
	"github.com/Faultbox/ldrawkit/internal/library"
	"github.com/Faultbox/ldrawkit/internal/logger"
	"github.com/Faultbox/ldrawkit/internal/scene"
	"github.com/Faultbox/ldrawkit/pkg/ldraw"
	"github.com/Faultbox/ldrawkit/pkg/math"
)

// Session owns the caches, colour table and options of an importer.
// Every Import starts from empty caches; a Session runs one import at a
// time.
type Session struct {
	mu sync.Mutex

	cfg     config.Config
	opts    scene.Options
	lib     *library.Library
	colours *ldraw.ColourTable

	docs     *cache.DocumentCache
	geometry *cache.Cache[scene.BakeKey, *ldraw.Geometry]
	warnings *logger.Once

	colourProblems []ldraw.Problem

	resolved map[string]*ldraw.Colour
	cameras  []ldraw.Camera
	data     map[string][]byte
	parses   int
	stats    Stats
}

// New prepares a session for cfg. It fails with library.ErrNoInstallDir
// when no LDraw library can be found.
func New(cfg *config.Config) (*Session, error) {
	root, err := library.FindInstallDir(cfg.LDraw.Directory)
	if err != nil {
		return nil, err
	}

	colours, problems, err := loadColours(root, ldraw.Scheme(cfg.LDraw.ColourScheme))
	if err != nil {
		return nil, err
	}

	paths := library.SearchPaths(library.Options{
		Root:          root,
		StudLogoDir:   cfg.LDraw.StudLogoDirectory,
		LSynthDir:     cfg.LDraw.LSynthDirectory,
		Resolution:    cfg.LDraw.Resolution,
		UseUnofficial: cfg.LDraw.UseUnofficialParts,
		UseLSynth:     cfg.LDraw.UseLSynthParts,
		LogoStuds:     cfg.Import.LogoStuds,
	})
	logger.Debug("search paths", zap.String("root", root), zap.Strings("paths", paths))

	s := &Session{
		cfg: *cfg,
		opts: scene.Options{
			FlattenHierarchy: cfg.Import.FlattenHierarchy,
			InstanceStuds:    cfg.Import.InstanceStuds,
			ResolveNormals:   cfg.Import.ResolveNormals,
			NumberNodes:      cfg.Import.NumberNodes,
			FlattenGroups:    cfg.Import.FlattenGroups,
			Gaps:             cfg.Import.Gaps,
			GapWidth:         cfg.Import.GapWidth,
		},
		lib:      library.New(root, paths),
		colours:  colours,
		docs:     cache.NewDocumentCache(),
		geometry: cache.New[scene.BakeKey, *ldraw.Geometry](),
		warnings: logger.NewOnce(),
		resolved: make(map[string]*ldraw.Colour),
		data:     make(map[string][]byte),

		colourProblems: problems,
	}
	s.warnColourProblems()
	return s, nil
}

// loadColours reads the scheme's colour file, falling back to LDConfig.ldr.
// Malformed definitions are skipped and returned as problems.
func loadColours(root string, scheme ldraw.Scheme) (*ldraw.ColourTable, []ldraw.Problem, error) {
	path := filepath.Join(root, scheme.ConfigFile())
	t, problems, err := ldraw.ParseColourFile(path)
	if err != nil && scheme.ConfigFile() != ldraw.SchemeLDraw.ConfigFile() {
		logger.Warn("colour scheme file missing, using LDConfig.ldr", zap.String("path", path))
		t, problems, err = ldraw.ParseColourFile(filepath.Join(root, ldraw.SchemeLDraw.ConfigFile()))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading colours: %w", err)
	}
	t.ApplyScheme(scheme)
	return t, problems, nil
}

// warnColourProblems reports skipped colour definitions through the
// session's warnings so every import carries them.
func (s *Session) warnColourProblems() {
	for _, p := range s.colourProblems {
		s.warnings.Warn(p.Key, p.Message)
	}
}

// Library returns the file locator used by the session.
func (s *Session) Library() *library.Library {
	return s.lib
}

// Colours returns the colour table.
func (s *Session) Colours() *ldraw.ColourTable {
	return s.colours
}

// Import reads filename and everything it references.
func (s *Session) Import(filename string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()

	path, err := homedir.Expand(filename)
	if err != nil {
		return nil, err
	}
	if path, err = filepath.Abs(path); err != nil {
		return nil, err
	}

	if s.cfg.Import.LogoStuds {
		s.preloadLogoStuds()
	}

	colour := s.cfg.Import.DefaultColour
	root := scene.NewRoot(path, colour)
	if err := root.Load(s, s.cfg.Import.MaxDepth); err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	if root.Doc == nil {
		return nil, fmt.Errorf("%w: %s", library.ErrNotFound, filename)
	}

	transform := math.Identity()
	if s.cfg.Import.ZUp {
		transform = math.RotateX(-math32.Pi / 2)
	}

	baker := scene.NewBaker(s.opts, s.geometry)
	builder := scene.NewBuilder(s.opts, baker)
	obj, err := builder.Build(root, colour, transform)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", filename, err)
	}

	bounds := builder.Bounds()
	if s.cfg.Import.PlaceOnGround && s.cfg.Import.ZUp && root.Doc.IsModel() && bounds.Valid {
		centre := bounds.Center()
		offset := math.V3(-centre.X, -centre.Y, -bounds.Min.Z)
		obj.Translate(offset)
		bounds.Min = bounds.Min.Add(offset)
		bounds.Max = bounds.Max.Add(offset)
	}

	res := &Result{
		Root:    obj,
		Cameras: s.cameras,
		Data:    s.data,
		Bounds:  bounds,
		Colours: s.collectColours(obj),
	}
	res.Warnings = s.warnings.Messages()

	s.stats.Parses = s.parses
	s.stats.DocumentHits, s.stats.DocumentMisses = s.docs.Stats()
	s.stats.BakeHits, s.stats.BakeMisses = baker.Stats()
	s.stats.Objects = builder.Count()
	obj.Walk(func(o *Object) {
		if o.Geometry != nil {
			s.stats.Points += len(o.Geometry.Points)
			s.stats.Faces += len(o.Geometry.Faces)
		}
	})

	logger.Info("imported model",
		zap.String("file", path),
		zap.Int("objects", s.stats.Objects),
		zap.Int("files", s.parses),
		zap.Int("faces", s.stats.Faces),
		zap.Int("warnings", len(res.Warnings)),
	)
	return res, nil
}

// Stats returns counters from the last import.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// reset discards everything cached by a previous import.
func (s *Session) reset() {
	s.docs.Clear()
	s.geometry.Clear()
	s.lib.Reset()
	s.warnings.Reset()
	s.warnColourProblems()
	s.resolved = make(map[string]*ldraw.Colour)
	s.cameras = nil
	s.data = make(map[string][]byte)
	s.parses = 0
	s.stats = Stats{}
}

// Document implements scene.Loader. Missing and unreadable files are
// reported once and yield no document.
func (s *Session) Document(ref ldraw.ChildRef, parentDir string) (*ldraw.Document, bool) {
	if doc, ok := s.docs.Get(ref.Filename); ok {
		return doc, true
	}
	doc, ok := s.parse(ref.Filename, ref.Filename, parentDir, ref.SubPart)
	if !ok {
		return nil, false
	}
	s.docs.Set(ref.Filename, doc)
	return doc, true
}

// parse locates and parses filename, registering its extra MPD sections.
// name is the document name used for the main section.
func (s *Session) parse(filename, name, parentDir string, subPart bool) (*ldraw.Document, bool) {
	key := strings.ToLower(filename)

	path, err := s.lib.Locate(filename, parentDir)
	if err != nil {
		s.warnings.Warn("missing:"+key, fmt.Sprintf("Missing file %s", filename), zap.Error(err))
		return nil, false
	}
	lines, err := library.ReadLines(path)
	if err != nil {
		s.warnings.Warn("unreadable:"+key, fmt.Sprintf("Could not read file %s", filename), zap.Error(err))
		return nil, false
	}

	s.parses++
	logger.Debug("parsing", zap.String("file", path))

	f := ldraw.Parse(name, lines, ldraw.ParseOptions{
		Scale:         s.cfg.Import.EffectiveScale(),
		ImportCameras: s.cfg.Import.ImportCameras,
		SubPart:       subPart,
		Dir:           filepath.Dir(path),
	})
	for _, p := range f.Problems {
		s.warnings.Warn(p.Key, p.Message)
	}
	for _, sec := range f.Sections {
		if _, exists := s.docs.Get(sec.Name); !exists {
			s.docs.Set(sec.Name, sec)
		}
	}
	for k, v := range f.Data {
		s.data[k] = v
	}
	s.cameras = append(s.cameras, f.Cameras...)
	return f.Main, true
}

// preloadLogoStuds registers logo studs under the plain stud names.
func (s *Session) preloadLogoStuds() {
	for _, a := range ldraw.LogoStudAliases(s.cfg.Import.LogoStudVersion) {
		doc, ok := s.parse(a.File, a.File, "", true)
		if !ok {
			continue
		}
		s.docs.Set(a.Alias, doc)
	}
}

// Colour resolves a colour name through the colour table. Names that
// cannot be decoded are reported once.
func (s *Session) Colour(name string) (ldraw.Colour, bool) {
	if c, ok := s.resolved[name]; ok {
		if c == nil {
			return ldraw.Colour{}, false
		}
		return *c, true
	}
	c, err := s.colours.Lookup(name)
	if err != nil {
		s.warnings.Warn("colour:"+name, fmt.Sprintf("Could not decode %s to a colour", name), zap.Error(err))
		s.resolved[name] = nil
		return ldraw.Colour{}, false
	}
	s.resolved[name] = &c
	return c, true
}

// collectColours resolves every face colour used under root.
func (s *Session) collectColours(root *Object) map[string]ldraw.Colour {
	out := make(map[string]ldraw.Colour)
	root.Walk(func(o *Object) {
		if o.Geometry == nil {
			return
		}
		for _, info := range o.Geometry.FaceInfo {
			if _, done := out[info.Colour]; done {
				continue
			}
			if c, ok := s.Colour(info.Colour); ok {
				out[info.Colour] = c
			}
		}
	})
	return out
}
