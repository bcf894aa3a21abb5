package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/wfsynth/encode"
	"github.com/signadot/wfsynth/format"
	"github.com/signadot/wfsynth/synth"
)

func cnfMain(cfg *CNFConfig, cc *cli.Context, args []string) error {
	args, err := cfg.CNF.Parse(cc, args)
	if err != nil {
		return err
	}
	c, err := cfg.flags.load(args)
	if err != nil {
		return err
	}
	f := format.DIMACSFormat
	if cfg.Format != nil {
		f = *cfg.Format
	}
	if !f.IsEncoding() {
		return fmt.Errorf("%w: %s is not an encoding format", cli.ErrUsage, f)
	}
	length := cfg.Length
	if length <= 0 {
		length = max(c.SolutionLength.Min, 1)
	}
	p, err := synth.Load(c, cfg.log)
	if err != nil {
		return err
	}
	e := p.Encoder(length, synth.OptionsFrom(c), cfg.log)
	clauses, err := e.Encode(p.Formulas())
	if err != nil {
		return err
	}
	a := e.Automaton()
	opts := []encode.EncodeOption{
		encode.EncodeFormat(f),
		encode.EncodeHeader(
			fmt.Sprintf("workflow length %d, %d inputs, %d outputs per step", length, a.Inputs(), a.Outputs()),
			fmt.Sprintf("%d atoms, %d auxiliary variables", e.Mapping().Size(), e.Mapping().AuxUsed())),
	}
	if cfg.Names {
		opts = append(opts, encode.EncodeNames(e.Mapping().Name))
	}
	if f == format.SMTFormat {
		opts = append(opts, encode.EncodeSymbols(encode.SMTSymbols(e.Mapping())))
	}
	if colors := cfg.colors(cc.Out); colors != nil {
		opts = append(opts, encode.EncodeColors(colors))
	}
	return encode.Encode(clauses, cc.Out, opts...)
}
