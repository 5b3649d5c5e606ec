package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/httpserver"
)

// modelsCmd lists the target models
func modelsCmd() *cobra.Command {
	var (
		check  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List supported target models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := buildContainer()
			if err != nil {
				return err
			}

			return container.Invoke(func(catalog domain.ModelCatalog) error {
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}

				adapters, err := catalog.Catalog(ctx)
				if err != nil {
					return err
				}
				listing := httpserver.DescribeModels(ctx, adapters, check)

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(listing)
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				header := "PROVIDER\tMAX TOKENS\tMODELS"
				if check {
					header += "\tCONNECTED"
				}
				fmt.Fprintln(w, header)

				for _, p := range listing.Providers {
					line := fmt.Sprintf("%s\t%d\t%s", p.Provider, p.MaxTokens, strings.Join(p.Models, ", "))
					if p.Connected != nil {
						line += fmt.Sprintf("\t%t", *p.Connected)
					}
					fmt.Fprintln(w, line)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "probe each provider's API")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}
