package cmd

import (
	"fmt"
	"os"

	"github.com/flamelang/flame/internal/diag"
)

// printDiagnostics writes every recorded diagnostic to stderr in
// report order, matching diag.Diagnostic.String()'s "category error at
// pos: message" shape plus any chained notes.
func printDiagnostics(sink *diag.Sink) {
	for _, d := range sink.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.String())
	}
}
