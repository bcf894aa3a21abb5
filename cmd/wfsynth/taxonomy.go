package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/signadot/wfsynth/encode"
	"github.com/signadot/wfsynth/synth"
	"github.com/signadot/wfsynth/taxonomy"
)

func taxonomyMain(cfg *TaxonomyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Taxonomy.Parse(cc, args)
	if err != nil {
		return err
	}
	c, err := cfg.flags.load(args)
	if err != nil {
		return err
	}
	p, err := synth.Load(c, cfg.log)
	if err != nil {
		return err
	}
	colors := cfg.colors(cc.Out)
	paint := func(a encode.ColorAttr, s string) string {
		if colors == nil {
			return s
		}
		return colors.Color(a, s)
	}
	tab := p.Domain.Table
	w := bufio.NewWriter(cc.Out)
	seen := map[taxonomy.Handle]bool{}
	var walk func(h taxonomy.Handle, depth int)
	walk = func(h taxonomy.Handle, depth int) {
		pr := tab.Get(h)
		if pr.Removed() {
			return
		}
		line := strings.Repeat("  ", depth) + pr.ID
		switch {
		case pr.Module != nil:
			line += " " + paint(encode.KeywordColor, fmt.Sprintf("(tool, %d in, %d out)", len(pr.Module.Inputs), len(pr.Module.Outputs)))
		case pr.IsRoot():
			line += " " + paint(encode.CommentColor, "("+pr.Variant.String()+")")
		}
		if seen[h] {
			fmt.Fprintln(w, line, paint(encode.CommentColor, "^"))
			return
		}
		seen[h] = true
		fmt.Fprintln(w, line)
		for _, ch := range pr.Children() {
			walk(ch, depth+1)
		}
	}
	for _, r := range tab.Roots() {
		walk(r, 0)
	}
	if cfg.All {
		for _, pr := range tab.All() {
			if pr.Aux == nil {
				continue
			}
			fmt.Fprintf(w, "%s %s\n", pr.ID, paint(encode.CommentColor, "("+pr.Aux.Connective.String()+")"))
		}
	}
	return w.Flush()
}
