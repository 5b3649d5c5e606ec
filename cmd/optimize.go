package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/observability"
)

// optimizeCmd optimizes one prompt and prints the JSON result
func optimizeCmd() *cobra.Command {
	var (
		model  string
		level  string
		role   string
		system string
	)

	cmd := &cobra.Command{
		Use:   "optimize [prompt|-]",
		Short: "Optimize a prompt for a target model",
		Long: `Optimize a prompt and print the result as JSON.

The prompt is read from the first argument, or from stdin when the argument
is "-" or missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			container, err := buildContainer()
			if err != nil {
				return err
			}

			return container.Invoke(func(optimizer domain.Optimizer) error {
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				ctx = observability.WithRequestID(ctx, observability.GenerateRequestID())

				result, err := optimizer.Optimize(ctx, &domain.OptimizationRequest{
					Prompt:       prompt,
					TargetModel:  model,
					Role:         domain.Role(role),
					SystemPrompt: system,
					Level:        domain.Level(level),
				})
				if err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(result)
			})
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "target model id (required)")
	cmd.Flags().StringVarP(&level, "level", "l", string(domain.LevelBasic), "optimization level: basic, advanced or expert")
	cmd.Flags().StringVarP(&role, "role", "r", string(domain.RoleUser), "message role: system, user or assistant")
	cmd.Flags().StringVarP(&system, "system", "s", "", "system prompt used as analysis context")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
