// Command inferdf is the batch build/inspect/compose/verify driver over
// already-parsed facts and rules. It never parses N-Quads or a rule DSL
// itself — that lives outside this module (spec §1 "external
// collaborators"); inferdf build consumes the JSON interchange format in
// internal/interchange instead.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inferdf/inferdf/internal/config"
	"github.com/inferdf/inferdf/internal/logging"
	"github.com/inferdf/inferdf/internal/module"
	"github.com/inferdf/inferdf/internal/rdf"
	"github.com/inferdf/inferdf/internal/rule"
)

// Exit codes (spec §6).
const (
	exitOK                 = 0
	exitInputParseError    = 1
	exitSaturationConflict = 2
	exitBudgetExceeded     = 3
	exitIOError            = 4
	exitFormatMismatch     = 5
)

var (
	cfgPath  string
	pageSize uint32
)

var rootCmd = &cobra.Command{
	Use:   "inferdf",
	Short: "Build, inspect, compose, and verify InfeRDF modules",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to inferdf.yaml (defaults if absent)")
	rootCmd.PersistentFlags().Uint32Var(&pageSize, "page-size", 0, "override the configured module page size")

	rootCmd.AddCommand(buildCmd, inspectCmd, composeCmd, verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "inferdf:", err)
		os.Exit(exitCodeFor(err))
	}
}

func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = "inferdf.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if pageSize != 0 {
		cfg.PageSize = pageSize
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

// errInputParse sentinels an input-parsing failure so exitCodeFor can
// distinguish it from a plain I/O error without inspecting error strings.
var errInputParse = errors.New("inferdf: input parse error")

// exitCodeFor classifies an error into one of §6's exit codes. Errors that
// don't match a known sentinel fall back to the generic I/O bucket, since
// most unclassified failures at this layer are read/write failures.
func exitCodeFor(err error) int {
	var conflict *rdf.ConflictError
	var locked *rule.LockedConflictError
	var budget *rule.BudgetError
	var factLimit *rule.FactLimitError

	switch {
	case errors.Is(err, module.ErrFormatMismatch), errors.Is(err, module.ErrUnalignedPage):
		return exitFormatMismatch
	case errors.Is(err, rule.ErrSaturationBudgetExceeded), errors.As(err, &budget), errors.As(err, &factLimit):
		return exitBudgetExceeded
	case errors.As(err, &conflict), errors.As(err, &locked):
		return exitSaturationConflict
	case errors.Is(err, errInputParse):
		return exitInputParseError
	default:
		return exitIOError
	}
}
