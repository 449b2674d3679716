package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inferdf/inferdf/internal/compose"
	"github.com/inferdf/inferdf/internal/logging"
	"github.com/inferdf/inferdf/internal/module"
)

var composeOutPath string

var composeCmd = &cobra.Command{
	Use:   "compose <a> <b>",
	Short: "Merge two modules by matching classification structure and write the union",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompose,
}

func init() {
	composeCmd.Flags().StringVar(&composeOutPath, "out", "", "path to write the composed module (required)")
	composeCmd.MarkFlagRequired("out")
}

func runCompose(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.Get(logging.CategoryCompose)

	a, err := openModule(args[0])
	if err != nil {
		return err
	}
	b, err := openModule(args[1])
	if err != nil {
		return err
	}

	plan, err := compose.Compose(a, b)
	if err != nil {
		return fmt.Errorf("inferdf compose: %w", err)
	}
	log.Infof("plan: %d merges, %d only-in-a, %d only-in-b", len(plan.Merges), len(plan.OnlyInA), len(plan.OnlyInB))

	interp, dataset, err := compose.Apply(a, b, plan)
	if err != nil {
		return fmt.Errorf("inferdf compose: apply: %w", err)
	}

	cls, err := compose.Classify(interp, dataset.Default)
	if err != nil {
		return fmt.Errorf("inferdf compose: classify: %w", err)
	}

	data, err := module.Build(interp, dataset, cls, cfg.PageSize)
	if err != nil {
		return fmt.Errorf("inferdf compose: encode: %w", err)
	}
	if err := os.WriteFile(composeOutPath, data, 0644); err != nil {
		return fmt.Errorf("inferdf compose: write %s: %w", composeOutPath, err)
	}

	fmt.Printf("wrote %s (%d bytes)\n", composeOutPath, len(data))
	return nil
}

func openModule(path string) (*module.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inferdf compose: read %s: %w", path, err)
	}
	mod, err := module.Open(data)
	if err != nil {
		return nil, fmt.Errorf("inferdf compose: open %s: %w", path, err)
	}
	return mod, nil
}
