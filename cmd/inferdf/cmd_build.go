package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inferdf/inferdf/internal/classify"
	"github.com/inferdf/inferdf/internal/interchange"
	"github.com/inferdf/inferdf/internal/logging"
	"github.com/inferdf/inferdf/internal/module"
	"github.com/inferdf/inferdf/internal/rdf"
	"github.com/inferdf/inferdf/internal/rule"
)

var (
	buildFactsPath string
	buildOutPath   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Saturate a fact/rule set and write a module",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildFactsPath, "facts", "", "path to the JSON interchange document (required)")
	buildCmd.Flags().StringVar(&buildOutPath, "out", "", "path to write the built module (required)")
	buildCmd.MarkFlagRequired("facts")
	buildCmd.MarkFlagRequired("out")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.Get(logging.CategoryCLI)
	timer := logging.StartTimer(logging.CategoryCLI, "build")
	defer timer.Stop()

	f, err := os.Open(buildFactsPath)
	if err != nil {
		return fmt.Errorf("inferdf build: open %s: %w", buildFactsPath, err)
	}
	defer f.Close()

	doc, err := interchange.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: %v", errInputParse, err)
	}

	interp := rdf.NewInterpretation()
	dataset := rdf.NewDataset()
	if err := interchange.LoadTriples(interp, dataset.Default, doc.Triples); err != nil {
		return fmt.Errorf("%w: %v", errInputParse, err)
	}
	rules, err := interchange.LoadRules(interp, doc.Rules)
	if err != nil {
		return fmt.Errorf("%w: %v", errInputParse, err)
	}
	log.Infof("loaded %d triples, %d rules from %s", len(doc.Triples), len(rules), buildFactsPath)

	eng := rule.NewEngine(interp, dataset.Default, rules, rule.Config{
		StepBudget: cfg.Saturation.StepBudget,
		FactLimit:  cfg.Saturation.FactLimit,
	})
	if err := eng.Saturate(); err != nil {
		return fmt.Errorf("inferdf build: saturation: %w", err)
	}
	log.Infof("saturation reached fixpoint with %d facts in the default graph", dataset.Default.Len())

	cls, err := classify.Classify(interp, dataset.Default)
	if err != nil {
		return fmt.Errorf("inferdf build: classify: %w", err)
	}

	data, err := module.Build(interp, dataset, cls, cfg.PageSize)
	if err != nil {
		return fmt.Errorf("inferdf build: encode module: %w", err)
	}
	if err := os.WriteFile(buildOutPath, data, 0644); err != nil {
		return fmt.Errorf("inferdf build: write %s: %w", buildOutPath, err)
	}

	fmt.Printf("wrote %s (%d bytes)\n", buildOutPath, len(data))
	return nil
}
