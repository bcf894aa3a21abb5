package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Encode bool
	Decode bool
	Solve  bool
	Parse  bool
	Eval   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Encode = boolEnv("WFSYNTH_DEBUG_ENCODE")
	d.Decode = boolEnv("WFSYNTH_DEBUG_DECODE")
	d.Solve = boolEnv("WFSYNTH_DEBUG_SOLVE")
	d.Parse = boolEnv("WFSYNTH_DEBUG_PARSE")
	d.Eval = boolEnv("WFSYNTH_DEBUG_EVAL")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Encode() bool {
	return d.Encode
}
func Decode() bool {
	return d.Decode
}
func Solve() bool {
	return d.Solve
}
func Parse() bool {
	return d.Parse
}
func Eval() bool {
	return d.Eval
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
