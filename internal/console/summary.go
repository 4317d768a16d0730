package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)
)

// PrintSummary writes the one-line run summary, e.g.
// "12 imported, 3 replaced, 1 failed".
func PrintSummary(w io.Writer, imported, replaced, failed int) {
	okColor.Fprintf(w, "%d imported", imported)
	fmt.Fprint(w, ", ")
	warnColor.Fprintf(w, "%d replaced", replaced)
	fmt.Fprint(w, ", ")
	if failed > 0 {
		failColor.Fprintf(w, "%d failed", failed)
	} else {
		fmt.Fprintf(w, "%d failed", failed)
	}
	fmt.Fprintln(w)
}

// PrintLogFiles lists the run log files that were written.
func PrintLogFiles(w io.Writer, paths []string) {
	for _, p := range paths {
		fmt.Fprintf(w, "  log: %s\n", p)
	}
}

// Failure prints a single failed item.
func Failure(w io.Writer, title, message string) {
	failColor.Fprint(w, "✗ ")
	fmt.Fprintf(w, "%s: %s\n", title, message)
}
