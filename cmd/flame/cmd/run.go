package cmd

import (
	"fmt"
	"os"

	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/internal/evaluator"
	"github.com/flamelang/flame/internal/parser"
	"github.com/flamelang/flame/internal/project"
	"github.com/flamelang/flame/internal/sema"
	"github.com/spf13/cobra"
)

var useProject bool

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Lex, parse, check, and evaluate a script",
	Long: `Run executes a flame program: lex, parse, Sema.CheckFull, then
Evaluator.Run over the result. The final top-level expression
statement's value is printed.

Examples:
  flame run script.fl
  flame run --project          # resolve the entry point from flame.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&useProject, "project", false, "resolve the entry point from flame.toml")
}

func runRun(_ *cobra.Command, args []string) error {
	path, err := resolveEntryPath(args)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	sink := diag.New()
	prog, ok := parser.Parse(string(src), sink)
	if !ok || sink.HasErrors() {
		printDiagnostics(sink)
		return fmt.Errorf("parsing failed")
	}

	if !sema.CheckFull(prog, sink) {
		printDiagnostics(sink)
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(sink.Diagnostics()))
	}

	ev := evaluator.New(sink)
	result, err := ev.Run(prog)
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}

	fmt.Println(result.String())
	return nil
}

// resolveEntryPath picks the file to run: an explicit path argument,
// or — with --project — the [run].main entry of the nearest
// flame.toml (SPEC_FULL.md §6.1).
func resolveEntryPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !useProject {
		return "", fmt.Errorf("either provide a file path or pass --project")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	manifest, ok, err := project.LoadManifest(cwd)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no %s found starting from %s", project.ManifestName, cwd)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "running package %q (%s)\n", manifest.Package.Name, manifest.EntryPath())
	}
	return manifest.EntryPath(), nil
}
