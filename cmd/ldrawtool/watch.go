package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/ldrawkit/internal/logger"
	"github.com/Faultbox/ldrawkit/pkg/ldraw"
)

// settle is how long a file must stay quiet before it is re-imported.
const settle = 200 * time.Millisecond

func cmdWatch(args []string) {
	c := newCommand("watch")
	output := c.fs.String("o", "", "Output .obj file (default: model name)")
	edges := c.fs.Bool("edges", false, "Include edge lines")
	c.parse(args, 1, "watch [-o out.obj] [options] <model>")
	defer logger.Sync()

	model, err := filepath.Abs(c.fs.Arg(0))
	if err != nil {
		fatal(err)
	}
	out := *output
	if out == "" {
		out = ldraw.StemName(model) + ".obj"
	}

	s := c.session()
	if err := exportModel(c, s, out, *edges); err != nil {
		logger.Error("export failed", zap.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fatal(err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its folder.
	if err := watcher.Add(filepath.Dir(model)); err != nil {
		fatal(err)
	}
	fmt.Printf("Watching %s\n", model)

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != model {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending = time.After(settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			if err := exportModel(c, s, out, *edges); err != nil {
				logger.Error("export failed", zap.Error(err))
			}
		}
	}
}
