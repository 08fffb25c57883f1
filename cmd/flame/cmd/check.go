package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flamelang/flame/internal/cache"
	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/internal/parser"
	"github.com/flamelang/flame/internal/sema"
	"github.com/spf13/cobra"
)

var (
	noCache bool
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Lex, parse, and semantically check a script without running it",
	Long: `Check runs the same pipeline as run but stops after Sema.CheckFull,
printing diagnostics only. Results are cached under .flame-cache/,
keyed by a SHA-256 hash of the source text, so a repeated check over
an unchanged file skips re-analysis (SPEC_FULL.md §6.2).`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass and drop the analysis cache")
}

func runCheck(_ *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	cacheDir := filepath.Join(filepath.Dir(path), ".flame-cache")
	dc, cacheErr := cache.Open(cacheDir)
	if cacheErr != nil && verbose {
		fmt.Fprintf(os.Stderr, "warning: cache unavailable: %v\n", cacheErr)
	}

	key := cache.HashSource(src)
	if dc != nil {
		if noCache {
			if err := dc.DropAll(); err != nil && verbose {
				fmt.Fprintf(os.Stderr, "warning: failed to drop cache: %v\n", err)
			}
		} else if cached, hit, err := dc.Get(key); err == nil && hit {
			if verbose {
				fmt.Fprintf(os.Stderr, "cache hit for %s\n", path)
			}
			return reportDiagnostics(cached)
		}
	}

	sink := diag.New()
	prog, ok := parser.Parse(string(src), sink)
	if ok {
		sema.CheckFull(prog, sink)
	}

	diags := sink.Diagnostics()
	if dc != nil {
		if err := dc.Put(key, diags); err != nil && verbose {
			fmt.Fprintf(os.Stderr, "warning: failed to write cache: %v\n", err)
		}
	}
	return reportDiagnostics(diags)
}

func reportDiagnostics(diags []diag.Diagnostic) error {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if len(diags) > 0 {
		return fmt.Errorf("%d diagnostic(s)", len(diags))
	}
	return nil
}
