package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/wfsynth/config"
	"github.com/signadot/wfsynth/encode"
	"github.com/signadot/wfsynth/format"
)

type MainConfig struct {
	Verbose bool `cli:"name=v desc='log debug records'"`
	Gops    bool `cli:"name=gops desc='start a gops diagnostics agent'"`
	Color   bool `cli:"name=color desc='colour output'"`

	Main *cli.Command

	ctx context.Context
	log *slog.Logger
}

// colors returns the colours for output to w: always with -color,
// otherwise when w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) *encode.Colors {
	if cfg.Color {
		return encode.NewColors()
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return encode.NewColors()
	}
	return nil
}

// problemFlags are the configuration overlays of commands loading a
// problem.
type problemFlags struct {
	patches [][]byte
}

func (pf *problemFlags) patchOpt(_ *cli.Context, a string) (any, error) {
	d := []byte(a)
	if name, ok := strings.CutPrefix(a, "@"); ok {
		var err error
		if d, err = os.ReadFile(name); err != nil {
			return nil, err
		}
	}
	pf.patches = append(pf.patches, d)
	return a, nil
}

// load reads the configuration named by args: a file, a directory holding
// one of config.Names, or the current directory when args is empty.
func (pf *problemFlags) load(args []string) (*config.Config, error) {
	path := "."
	switch len(args) {
	case 0:
	case 1:
		path = args[0]
	default:
		return nil, fmt.Errorf("%w: expected at most one configuration, got %v", cli.ErrUsage, args)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		if path, err = config.Find(path); err != nil {
			return nil, err
		}
	}
	return config.Load(path, pf.patches...)
}

type SynthConfig struct {
	*MainConfig
	Out       string `cli:"name=o desc='directory for solution files (default solutions_dir_path)'"`
	Metrics   string `cli:"name=metrics desc='write metrics in the prometheus text format to this file'"`
	Solutions int    `cli:"name=n desc='number of solutions (default from the configuration)'"`
	Quiet     bool   `cli:"name=q desc='do not print solutions'"`

	flags problemFlags
	Synth *cli.Command
}

type CNFConfig struct {
	*MainConfig
	Length int  `cli:"name=length desc='workflow length (default the minimum configured length)'"`
	Names  bool `cli:"name=names desc='comment variables with their atoms'"`

	Format *format.Format
	flags  problemFlags
	CNF    *cli.Command
}

type SolveConfig struct {
	*MainConfig
	Solver string `cli:"name=solver desc='solver backend: gini, gophersat or external' default=gini"`
	Path   string `cli:"name=path desc='external solver binary'"`
	Models int    `cli:"name=models desc='number of models to enumerate' default=1"`

	Solve *cli.Command
}

type ParseConfig struct {
	*MainConfig
	Free bool `cli:"name=free desc='allow free variables'"`

	Parse *cli.Command
}

type TaxonomyConfig struct {
	*MainConfig
	All bool `cli:"name=all desc='include auxiliary predicates'"`

	flags    problemFlags
	Taxonomy *cli.Command
}

type TemplatesConfig struct {
	*MainConfig

	Templates *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Context int `cli:"name=context desc='lines of context, negative for all' default=3"`

	Diff *cli.Command
}
