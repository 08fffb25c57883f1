package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/internal/parser"
	"github.com/flamelang/flame/internal/sema"
	"github.com/spf13/cobra"
)

var fmtErrorsCmd = &cobra.Command{
	Use:   "fmt-errors [file]",
	Short: "Pretty-print a script's diagnostics with source context",
	Long: `fmt-errors runs the same checking pipeline as check, but renders
each diagnostic with a caret pointing at the offending column in its
source line, the same way compilers conventionally report errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmtErrors,
}

func init() {
	rootCmd.AddCommand(fmtErrorsCmd)
}

func runFmtErrors(_ *cobra.Command, args []string) error {
	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	src := string(raw)
	lines := strings.Split(src, "\n")

	sink := diag.New()
	prog, ok := parser.Parse(src, sink)
	if ok {
		sema.CheckFull(prog, sink)
	}

	diags := sink.Diagnostics()
	for _, d := range diags {
		printPretty(path, lines, d, 0)
	}
	if len(diags) > 0 {
		return fmt.Errorf("%d diagnostic(s)", len(diags))
	}
	fmt.Println("no diagnostics")
	return nil
}

func printPretty(path string, lines []string, d diag.Diagnostic, indent int) {
	prefix := strings.Repeat("  ", indent)
	locPrefix := ""
	if d.Location != "" {
		locPrefix = d.Location + ": "
	}
	fmt.Printf("%s%s:%s: %s%s: %s\n", prefix, path, d.Pos, locPrefix, d.Category, d.Message)

	if d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
		srcLine := lines[d.Pos.Line-1]
		fmt.Printf("%s  %s\n", prefix, srcLine)
		col := d.Pos.Column
		if col < 1 {
			col = 1
		}
		fmt.Printf("%s  %s^\n", prefix, strings.Repeat(" ", col-1))
	}

	for _, n := range d.Notes {
		printPretty(path, lines, n, indent+1)
	}
}
