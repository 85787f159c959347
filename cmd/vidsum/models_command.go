package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidsum/internal/services/ollama"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models installed on the Ollama server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client := ollama.NewClient(ollama.Config{BaseURL: cfg.Generation.BaseURL, TimeoutSeconds: cfg.Generation.TimeoutSeconds})
			models, err := client.ListModels(cmd.Context())
			if err != nil {
				if hint := ollama.HintOf(err); hint != "" {
					return fmt.Errorf("%w (%s)", err, hint)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if len(models) == 0 {
				fmt.Fprintf(out, "No models installed on %s. Install one with `ollama pull %s`.\n", client.BaseURL(), cfg.Generation.Model)
				return nil
			}
			sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })

			rows := make([][]string, 0, len(models))
			configured := false
			for _, m := range models {
				marker := ""
				if m.Name == cfg.Generation.Model {
					marker = "*"
					configured = true
				}
				modified := ""
				if !m.ModifiedAt.IsZero() {
					modified = humanize.Time(m.ModifiedAt)
				}
				rows = append(rows, []string{
					marker,
					m.Name,
					humanize.Bytes(uint64(max(m.Size, 0))),
					m.Details.ParameterSize,
					m.Details.QuantizationLevel,
					modified,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"", "Name", "Size", "Params", "Quant", "Modified"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			if !configured {
				fmt.Fprintf(out, "Configured model %s is not installed; run `ollama pull %s`.\n", cfg.Generation.Model, cfg.Generation.Model)
			}
			return nil
		},
	}
}
