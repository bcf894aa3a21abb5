package eval

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/wfsynth/debug"
)

type Env = map[string]any

func run(input string, env Env) (any, error) {
	program, err := expr.Compile(input, expr.Env(env))
	if err != nil {
		return nil, err
	}
	return vm.Run(program, env)
}

// ExpandString expands $[...] expressions in v.
//
// An expression closes at the first ] that is outside brackets it opened
// and outside string literals, so $[inputs[0]] and $["]"] are single
// expressions. Backslash escaping is supported:
//   - \] → literal ] (does not close the expression)
//   - \\ → literal \
//   - \x → x (for any character x) outside string literals
//
// Within string literals other escapes are passed through to the
// expression. If an expression is not closed, the text is kept literally.
func ExpandString(v string, env Env) (string, error) {
	if len(v) < 3 {
		return v, nil
	}
	exprStart := -1
	depth := 0
	var quote byte
	var out, key []byte
	for i := 0; i < len(v); i++ {
		c := v[i]
		if exprStart == -1 {
			if c == '$' && i+1 < len(v) && v[i+1] == '[' {
				exprStart = i
				depth = 0
				quote = 0
				key = key[:0]
				i++
				continue
			}
			out = append(out, c)
			continue
		}
		switch {
		case c == '\\':
			if i+1 >= len(v) {
				continue
			}
			i++
			if quote != 0 && v[i] != ']' {
				key = append(key, c)
			}
			key = append(key, v[i])
		case quote != 0:
			if c == quote {
				quote = 0
			}
			key = append(key, c)
		case c == '"' || c == '\'' || c == '`':
			quote = c
			key = append(key, c)
		case c == '[':
			depth++
			key = append(key, c)
		case c == ']' && depth > 0:
			depth--
			key = append(key, c)
		case c == ']':
			s := strings.TrimSpace(string(key))
			x, err := run(s, env)
			if err != nil {
				return "", fmt.Errorf("error evaluating %q: %w", s, err)
			}
			if debug.Eval() {
				debug.Logf("eval %q gave %#v\n", s, x)
			}
			d, err := anyToBytes(x)
			if err != nil {
				return "", fmt.Errorf("could not marshal evaluation results for %s: %w", s, err)
			}
			out = append(out, d...)
			exprStart = -1
		default:
			key = append(key, c)
		}
	}
	if exprStart != -1 {
		out = append(out, v[exprStart:]...)
	}
	return string(out), nil
}

func anyToBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case int:
		return []byte(strconv.Itoa(x)), nil
	case float64:
		return []byte(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case bool:
		return []byte(strconv.FormatBool(x)), nil
	case []string:
		return []byte(strings.Join(x, " ")), nil
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			d, err := anyToBytes(e)
			if err != nil {
				return nil, err
			}
			parts[i] = string(d)
		}
		return []byte(strings.Join(parts, " ")), nil
	}
	return json.Marshal(v)
}
