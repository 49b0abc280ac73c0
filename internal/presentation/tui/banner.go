package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the calform banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`            _  __                      `, "#818cf8"},
		{`   ___ __ _| |/ _| ___  _ __ _ __ ___  `, "#a78bfa"},
		{`  / __/ _' | | |_ / _ \| '__| '_ ' _ \ `, "#c084fc"},
		{` | (_| (_| | |  _| (_) | |  | | | | | |`, "#e879f9"},
		{`  \___\__,_|_|_|  \___/|_|  |_| |_| |_|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
