package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/tbd/pkg/psi"
)

func newSetsCmd(root *rootOptions) *cobra.Command {
	var show string
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "List the built-in and configured PSI and KHI sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			lib := cfg.Library(root.logger(cmd.ErrOrStderr()))
			if show != "" {
				s, err := lib.PSI(show)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderSet(s))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderLibrary(lib, cfg.Building))
			return nil
		},
	}
	cmd.Flags().StringVar(&show, "show", "", "print the values of one PSI set")
	return cmd
}

// marker flags the building default and built-in sets in listings.
func marker(id, building string) string {
	switch {
	case id == building:
		return "default"
	case psi.IsBuiltin(id):
		return "built-in"
	}
	return ""
}
