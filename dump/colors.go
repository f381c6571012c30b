package dump

import (
	"strings"

	"github.com/fatih/color"
)

type ColorAttr int

const (
	KindColor ColorAttr = iota
	NameColor
	URIColor
	NamespaceColor
	AttrColor
	ValueColor
	TextColor
	CommentColor
	ProcInstColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(string, ...any) string{
			KindColor:      color.RGB(74, 92, 138).SprintfFunc(),
			NameColor:      color.RGB(196, 96, 16).SprintfFunc(),
			URIColor:       color.RGB(96, 96, 96).SprintfFunc(),
			NamespaceColor: color.RGB(255, 0, 196).SprintfFunc(),
			AttrColor:      color.RGB(128, 168, 196).SprintfFunc(),
			ValueColor:     color.RGB(8, 196, 16).SprintfFunc(),
			TextColor:      color.RGB(198, 198, 46).SprintfFunc(),
			CommentColor:   color.BlueString,
			ProcInstColor:  color.CyanString,
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
	if c == nil {
		return colorDefault
	}
	f := c.Map[a]
	if f == nil {
		return c.Default
	}
	return f
}
