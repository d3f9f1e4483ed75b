// cmd/unit-lookup/lookup.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"unit-lookup/internal/records"
	interpretcode "unit-lookup/internal/workers/lookup/interpret-code"
	unitlookup "unit-lookup/internal/workers/lookup/unit-lookup"

	"github.com/spf13/cobra"
)

func newLookupCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <text>",
		Short: "Run one lookup against the configured store and print the result",
		Example: `  unit-lookup lookup 1101
  unit-lookup lookup 1 101
  unit-lookup lookup --json HMN835`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			zapLog, log := newLogger(cfg, "stderr")
			defer zapLog.Sync()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			src, err := records.Open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer src.Close()

			h := unitlookup.NewHandler(unitlookup.ConfigFrom(cfg), src, log, nil)
			out, err := h.Execute(ctx, &unitlookup.Input{Text: strings.Join(args, " ")})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			switch out.Status {
			case unitlookup.StatusFound:
				fmt.Fprintln(w, out.Message)
			case unitlookup.StatusNotFound:
				fmt.Fprintf(w, "no record for %s\n", out.Query)
			default:
				fmt.Fprintf(w, "invalid code: %s\n", out.Query.Reason)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func newInterpretCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "interpret <text>",
		Short: "Print how a message would be interpreted, without reading the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges := interpretcode.DefaultRanges()
			if opts.configPath != "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				ranges = interpretcode.RangesFromConfig(cfg.Lookup)
			}

			query, _ := interpretcode.Classify(strings.Join(args, " "), ranges)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(query)
		},
	}
}
