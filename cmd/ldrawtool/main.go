// ldrawtool is a CLI utility for importing and inspecting LDraw models.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/ldrawkit/internal/config"
	"github.com/Faultbox/ldrawkit/internal/importer"
	"github.com/Faultbox/ldrawkit/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "tree":
		cmdTree(args)
	case "export", "x":
		cmdExport(args)
	case "colours", "colors":
		cmdColours(args)
	case "cameras":
		cmdCameras(args)
	case "watch":
		cmdWatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ldrawtool - LDraw model import utility

Usage:
  ldrawtool <command> [options]

Commands:
  info <model>                 Import a model and show statistics
  tree <model>                 Print the object tree
  export [-o out.obj] <model>  Write the model as OBJ and MTL
  colours                      List the colour table
  cameras <model>              List LeoCAD cameras
  watch [-o out.obj] <model>   Re-export whenever the model changes

Common options:
  -config <file>   Config file (default ./ldrawkit.yaml or user config dir)
  -ldraw <dir>     LDraw library directory
  -scheme <name>   Colour scheme: ldraw, alt, lgeo
  -debug           Debug logging

Examples:
  ldrawtool info -ldraw ~/ldraw car.mpd
  ldrawtool export -o car.obj car.mpd
  ldrawtool tree -flatten car.mpd`)
}

// command is the state shared by every subcommand.
type command struct {
	fs    *flag.FlagSet
	flags *config.Flags
	cfg   *config.Config
}

func newCommand(name string) *command {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &command{fs: fs, flags: config.RegisterFlags(fs)}
}

// parse parses args, loads config and starts logging. It exits when fewer
// than nargs positional arguments remain.
func (c *command) parse(args []string, nargs int, usage string) {
	c.fs.Parse(args)
	if c.fs.NArg() < nargs {
		fmt.Fprintf(os.Stderr, "Usage: ldrawtool %s\n", usage)
		os.Exit(1)
	}

	cfg, err := config.Load(c.flags)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatal(err)
	}
	c.cfg = cfg
}

func (c *command) session() *importer.Session {
	s, err := importer.New(c.cfg)
	if err != nil {
		fatal(err)
	}
	return s
}

func (c *command) importModel(s *importer.Session) *importer.Result {
	res, err := s.Import(c.fs.Arg(0))
	if err != nil {
		fatal(err)
	}
	return res
}

func fatal(err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
