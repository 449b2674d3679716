package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inferdf/inferdf/internal/module"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <module>",
	Short: "Print header and section summary for a module",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("inferdf inspect: read %s: %w", args[0], err)
	}
	mod, err := module.Open(data)
	if err != nil {
		return fmt.Errorf("inferdf inspect: %w", err)
	}

	fmt.Printf("page size:        %d\n", mod.PageSize)
	fmt.Printf("iris:             %d\n", len(mod.IRIs))
	fmt.Printf("literals:         %d\n", len(mod.Literals))
	fmt.Printf("resources:        %d\n", len(mod.Resources))
	fmt.Printf("default facts:    %d\n", len(mod.Default.Facts))
	fmt.Printf("named graphs:     %d\n", len(mod.Named))
	fmt.Printf("groups by desc:   %d\n", len(mod.GroupByDesc))
	fmt.Printf("groups by id:     %d\n", len(mod.GroupByID))
	fmt.Printf("representatives:  %d\n", len(mod.Representatives))

	for _, gid := range mod.NamedGraphIDs() {
		fmt.Printf("  named graph %d: %d facts\n", gid, len(mod.Named[gid].Facts))
	}
	return nil
}
