package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders a semantic class of CLI text. With color enabled it
// applies the class color; without (NO_COLOR, dumb terminals, pipes) it
// falls back to plain-text decoration so the semantics survive.
type Formatter struct {
	color    *color.Color
	fallback [2]string
}

// Sprint formats the arguments in this formatter's style.
func (f Formatter) Sprint(a ...any) string {
	text := fmt.Sprint(a...)
	if colorDisabled() {
		return f.fallback[0] + text + f.fallback[1]
	}
	return f.color.Sprint(text)
}

// Sprintf is Sprint with a format specifier.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.Sprint(fmt.Sprintf(format, a...))
}

func colorDisabled() bool {
	// https://no-color.org/, plus fatih/color's own terminal detection.
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return color.NoColor
}

var (
	// Code marks runnable commands: yellow, or `backticks` without color.
	Code = Formatter{color.New(color.FgYellow), [2]string{"`", "`"}}

	// Path marks file and directory paths.
	Path = Formatter{color.New(color.FgYellow), [2]string{}}

	// Success marks completed operations.
	Success = Formatter{color.New(color.FgGreen), [2]string{}}

	// Error marks failures.
	Error = Formatter{color.New(color.FgRed), [2]string{}}

	// Warning marks conditions the user should act on.
	Warning = Formatter{color.New(color.FgYellow), [2]string{}}

	// Info marks hints and directional indicators.
	Info = Formatter{color.New(color.FgCyan), [2]string{}}

	// Highlight marks user-supplied values like usernames and item names:
	// cyan, or 'quotes' without color.
	Highlight = Formatter{color.New(color.FgCyan), [2]string{"'", "'"}}

	// Muted marks secondary detail like ids: gray, or (parens) without.
	Muted = Formatter{color.New(color.FgHiBlack), [2]string{"(", ")"}}
)
