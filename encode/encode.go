package encode

import (
	"bufio"
	"fmt"
	"io"

	"github.com/signadot/wfsynth/cnf"
	"github.com/signadot/wfsynth/format"
)

type EncState struct {
	format   format.Format
	comments bool
	header   []string
	names    func(int) (string, bool)
	symbols  func(int) string

	Color func(ColorAttr, string) string
}

// Encode writes c to w.
func Encode(c *cnf.CNF, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{format: format.DIMACSFormat, comments: true}
	for _, opt := range opts {
		opt(es)
	}
	bw := bufio.NewWriter(w)
	var err error
	switch es.format {
	case format.DIMACSFormat:
		err = writeDIMACS(c, bw, es)
	case format.SMTFormat:
		err = writeSMT(c, bw, es)
	default:
		return fmt.Errorf("%w: cannot encode clauses as %s", format.ErrBadFormat, es.format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func (es *EncState) color(a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(a, s)
}
