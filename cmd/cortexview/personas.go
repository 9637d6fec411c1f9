package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/eleven-am/cortexview/internal/persona"
	"github.com/spf13/cobra"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the personas loaded from the prompts directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		loader := persona.NewLoader(cfg.PromptsDir, logger)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tTEMPERATURE\tTOP_P\tMAX_TOKENS\t")
		for _, p := range loader.Personas() {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%d\t\n", p.Name, p.Temperature, p.TopP, p.MaxTokens)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(personasCmd)
}
