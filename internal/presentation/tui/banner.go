package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the portnet banner with the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Sea gradient (deep blue to teal)
	lines := []termenv.Style{
		termenv.String("                    _               _   ").Foreground(p.Color("#1e3a8a")),
		termenv.String("  _ __   ___  _ __| |_ _ __   ___| |_ ").Foreground(p.Color("#1d4ed8")),
		termenv.String(" | '_ \\ / _ \\| '__| __| '_ \\ / _ \\ __|").Foreground(p.Color("#0284c7")),
		termenv.String(" | |_) | (_) | |  | |_| | | |  __/ |_ ").Foreground(p.Color("#0891b2")),
		termenv.String(" | .__/ \\___/|_|   \\__|_| |_|\\___|\\__|").Foreground(p.Color("#0d9488")),
		termenv.String(" |_|").Foreground(p.Color("#14b8a6")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w, termenv.String(" "+version).Faint())
	fmt.Fprintln(w)
}
