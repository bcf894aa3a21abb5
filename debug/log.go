package debug

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/signadot/wfsynth/ir"
)

func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *ir.Node:
			if x == nil {
				args[i] = "<nil formula>"
				continue
			}
			args[i] = x.String()
		default:
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
