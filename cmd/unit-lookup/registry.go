// cmd/unit-lookup/registry.go
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"unit-lookup/pkg/registry"

	"github.com/spf13/cobra"
)

func newRegistryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "path to registry file (default built-in)")

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check activity ids, task types and that every schema compiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry is valid (%d activities)\n", len(reg.Activities))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TASK TYPE\tID\tSTATUS\tTIMEOUT\tCHANNELS")
			for _, a := range reg.Activities {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.TaskType, a.ID, a.Status, a.Timeout, strings.Join(a.Channels, ","))
			}
			return tw.Flush()
		},
	})
	return cmd
}
