package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hupe1980/argmesh/types"
)

func newTypesCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the built-in named types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nameStyle := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

			for _, name := range types.NewRegistry().Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), nameStyle.Render(name)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
