package encode

import (
	"strings"

	"github.com/fatih/color"
)

type ColorAttr int

const (
	CommentColor ColorAttr = iota
	ProblemColor
	PositiveColor
	NegativeColor
	KeywordColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(string, ...any) string{
			CommentColor:  color.BlueString,
			ProblemColor:  color.RGB(196, 96, 16).SprintfFunc(),
			PositiveColor: color.RGB(8, 196, 16).SprintfFunc(),
			NegativeColor: color.RGB(196, 128, 128).SprintfFunc(),
			KeywordColor:  color.RGB(74, 92, 138).SprintfFunc(),
		},
	}
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(a ColorAttr, s string) string {
	return c.Get(a)(s)
}

func (c *Colors) Get(a ColorAttr) func(string, ...any) string {
	f := c.Map[a]
	if f == nil {
		return c.Default
	}
	return f
}
