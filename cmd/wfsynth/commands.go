package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/wfsynth/format"
)

func MainCommand(ctx context.Context) *cli.Command {
	cfg := &MainConfig{ctx: ctx}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "wfsynth").
		WithSynopsis("wfsynth [opts] command [opts]").
		WithDescription("wfsynth synthesizes workflows of annotated tools with a SAT solver.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return wfMain(cfg, cc, args)
		}).
		WithSubs(
			SynthCommand(cfg),
			CNFCommand(cfg),
			SolveCommand(cfg),
			ParseCommand(cfg),
			TaxonomyCommand(cfg),
			TemplatesCommand(cfg),
			DiffCommand(cfg))
}

func patchOpt(cfg *problemFlags) *cli.Opt {
	return &cli.Opt{
		Name:        "patch",
		Description: "merge patch (JSON or YAML) applied to the configuration, @file reads it from file",
		Type:        cli.NamedFuncOpt(cfg.patchOpt, "(patch)"),
	}
}

func SynthCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SynthConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Synth, "synth").
		WithAliases("s").
		WithSynopsis("synth [opts] [config file or dir]").
		WithDescription(synthDescription).
		WithOpts(append(opts, patchOpt(&cfg.flags))...).
		WithRun(func(cc *cli.Context, args []string) error {
			return synthMain(cfg, cc, args)
		})
}

const synthDescription = `synth searches for workflows of increasing length.

The configuration is read from the given file, or from the first of
wfsynth.{json,yaml,yml,toml} in the given directory (default .). Workflows
found are printed and, when solutions_dir_path or -o is set, written to that
directory as text, JSON, dot graphs, shell scripts and CWL documents.`

func CNFCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CNFConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, patchOpt(&cfg.flags), &cli.Opt{
		Name:        "f",
		Description: "encoding format: dimacs/cnf, smt/smt2",
		Type:        cli.NamedFuncOpt(fmtFunc(&cfg.Format), "(format)"),
	})
	return cli.NewCommandAt(&cfg.CNF, "cnf").
		WithAliases("c").
		WithSynopsis("cnf [-length n] [-f format] [config file or dir]").
		WithDescription("write the encoding of one workflow length").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return cnfMain(cfg, cc, args)
		})
}

func SolveCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SolveConfig{MainConfig: mainCfg, Solver: "gini", Models: 1}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Solve, "solve").
		WithSynopsis("solve [-solver kind] [-models n] [file]").
		WithDescription("solve a DIMACS file, printing models in the competition format").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return solveMain(cfg, cc, args)
		})
}

func ParseCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ParseConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Parse, "parse").
		WithAliases("p").
		WithSynopsis("parse [files]").
		WithDescription("parse temporal formulas and print them fully parenthesized").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return parseMain(cfg, cc, args)
		})
}

func TaxonomyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TaxonomyConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Taxonomy, "taxonomy").
		WithAliases("t", "tax").
		WithSynopsis("taxonomy [config file or dir]").
		WithDescription("print the pruned taxonomy of a problem").
		WithOpts(append(opts, patchOpt(&cfg.flags))...).
		WithRun(func(cc *cli.Context, args []string) error {
			return taxonomyMain(cfg, cc, args)
		})
}

func TemplatesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TemplatesConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Templates, "templates").
		WithSynopsis("templates").
		WithDescription("list the constraint templates").
		WithRun(func(cc *cli.Context, args []string) error {
			return templatesMain(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Context: 3}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff [-context n] a b").
		WithDescription("line diff of two files, exit code 1 when they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diffMain(cfg, cc, args)
		})
}

func fmtFunc(fp **format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}
