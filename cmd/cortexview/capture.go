package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/api"
	"github.com/eleven-am/cortexview/internal/bootstrap"
	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/persona"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/storage"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a display once and print the analysis.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		display, _ := cmd.Flags().GetInt("display")
		title, _ := cmd.Flags().GetString("title")
		personaName, _ := cmd.Flags().GetString("persona")
		force, _ := cmd.Flags().GetBool("force")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		if !cmd.Flags().Changed("threshold") {
			threshold = cfg.Sensitivity
		}
		if title == "" {
			title = fmt.Sprintf("Display %d", display)
		}

		loader := persona.NewLoader(cfg.PromptsDir, logger)
		p, err := resolve(loader, personaName)
		if err != nil {
			return err
		}

		analyzer, err := bootstrap.ProvideProvider(cfg, logger)
		if err != nil {
			return err
		}

		store := bootstrap.ProvideScreenshotStore(cfg, logger)
		deps := pipeline.Dependencies{
			Capturer: capture.NewScreen(capture.DisplayLocator{}, logger),
			Detector: bootstrap.ProvideDetector(cfg),
			Analyzer: analyzer,
			Storage:  store,
			Auditor:  bootstrap.ProvideAuditLog(store, logger),
			Frames:   storage.NewMemoryFrameCache(),
		}

		db, err := bootstrap.ProvideDatabase(cfg)
		if err != nil {
			return err
		}
		if history := bootstrap.ProvideHistoryStore(db); history != nil {
			if err := history.Migrate(); err != nil {
				return err
			}
			deps.Recorders = append(deps.Recorders, history)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		orchestrator := pipeline.NewOrchestrator(deps, logger)
		resp, err := orchestrator.Run(ctx, pipeline.Params{
			Handle:    capture.Handle(display),
			Title:     title,
			Persona:   &p,
			Threshold: threshold,
			Force:     force,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !resp.Success {
			fmt.Fprintf(out, "%s %s\n", resp.SuggestionText, resp.ErrorMessage)
			return errors.New("analysis did not succeed")
		}

		fmt.Fprintln(out, resp.SuggestionText)
		fmt.Fprintf(out, "\n[%s | %d tokens", p.Name, resp.TokenUsage)
		if resp.ImagePath != "" {
			fmt.Fprintf(out, " | %s", resp.ImagePath)
		}
		fmt.Fprintln(out, "]")
		return nil
	},
}

func resolve(loader *persona.Loader, name string) (analysis.Persona, error) {
	if name == "" {
		return loader.Personas()[0], nil
	}
	return loader.Find(name)
}

func init() {
	captureCmd.Flags().IntP("display", "d", 0, "Display index to capture")
	captureCmd.Flags().StringP("title", "t", "", "Window title sent to the model")
	captureCmd.Flags().StringP("persona", "p", "", "Persona name (default: first loaded)")
	captureCmd.Flags().Bool("force", true, "Skip the change gate")
	captureCmd.Flags().Float64("threshold", api.DefaultThreshold, "Minimum changed fraction when not forced")
	rootCmd.AddCommand(captureCmd)
}
