// Command flame is the CLI driver for the language: it wires together
// the lexer, parser, semantic checker, and evaluator (SPEC_FULL.md
// §6.1). The core subsystems this binary drives — internal/sema and
// internal/evaluator — are the subject of the specification; this
// package is the external collaborator spec.md §1 treats as out of
// scope for the language's own semantics.
package main

import (
	"fmt"
	"os"

	"github.com/flamelang/flame/cmd/flame/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
