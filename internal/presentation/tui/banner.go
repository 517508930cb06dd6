package tui

import (
	"fmt"
	"io"
)

// PrintBanner writes the gamestate banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := newOutput(w)
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct {
		text, color string
	}{
		{"   __ _  __ _ _ __ ___   ___  ___| |_ __ _| |_ ___ ", "#818cf8"},
		{"  / _` |/ _` | '_ ` _ \\ / _ \\/ __| __/ _` | __/ _ \\", "#a78bfa"},
		{" | (_| | (_| | | | | | |  __/\\__ \\ || (_| | ||  __/", "#c084fc"},
		{"  \\__, |\\__,_|_| |_| |_|\\___||___/\\__\\__,_|\\__\\___|", "#e879f9"},
		{"  |___/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
