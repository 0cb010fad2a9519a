package encode

import "github.com/fatih/color"

// palette maps syntax roles to render functions. The zero-cost path is
// noPalette, which passes text through untouched.
type palette struct {
	key     func(string) string
	str     func(string) string
	num     func(string) string
	word    func(string) string
	comment func(string) string
	punct   func(string) string
}

var noPalette = &palette{
	key:     ident,
	str:     ident,
	num:     ident,
	word:    ident,
	comment: ident,
	punct:   ident,
}

var colorPalette = &palette{
	key:     colorFn(color.New(color.FgCyan)),
	str:     colorFn(color.New(color.FgGreen)),
	num:     colorFn(color.New(color.FgMagenta)),
	word:    colorFn(color.New(color.FgYellow)),
	comment: colorFn(color.New(color.FgHiBlack)),
	punct:   ident,
}

func colorFn(c *color.Color) func(string) string {
	return func(v string) string { return c.Sprint(v) }
}

func ident(v string) string { return v }
