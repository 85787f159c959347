package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidsum/internal/preflight"
	"vidsum/internal/progress"
	"vidsum/internal/services/ollama"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, the work directory, and the Ollama model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client := ollama.NewClient(ollama.Config{BaseURL: cfg.Generation.BaseURL, TimeoutSeconds: cfg.Generation.TimeoutSeconds})
			results := preflight.RunAll(cmd.Context(), cfg, client)

			out := cmd.OutOrStdout()
			colorize := progress.IsTerminal(out)
			if ctx.configFrom != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configFrom)
			}
			fmt.Fprintf(out, "Ollama: %s\n", client.BaseURL())
			for _, r := range results {
				fmt.Fprintln(out, renderStatusLine(r.Name, kindForResult(r), r.Detail, colorize))
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed: %s", len(failed), preflight.Summarize(failed))
			}
			return nil
		},
	}
}
