package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"   ____ _                _", "#38bdf8"},
	{"  / ___| |__   __ _ _ __| |_ ___ _ __", "#22d3ee"},
	{" | |   | '_ \\ / _` | '__| __/ _ \\ '__|", "#2dd4bf"},
	{" | |___| | | | (_| | |  | ||  __/ |", "#34d399"},
	{"  \\____|_| |_|\\__,_|_|   \\__\\___|_|", "#4ade80"},
}

// PrintBanner writes the Charter banner, colored when w supports it.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}
