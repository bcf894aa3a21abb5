package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/scott-cotton/cli"
	"github.com/signadot/wfsynth/constraint"
)

func templatesMain(cfg *TemplatesConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Templates.Parse(cc, args); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cc.Out, 0, 4, 2, ' ', 0)
	for _, t := range constraint.Templates() {
		ps := make([]string, len(t.Params))
		for i, k := range t.Params {
			ps[i] = k.String()
		}
		fmt.Fprintf(tw, "%s(%s)\t%s\n", t.ID, strings.Join(ps, ", "), t.Description)
	}
	return tw.Flush()
}
