package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"globaldub/internal/config"
	"globaldub/internal/deps"
	"globaldub/internal/queue"
	"globaldub/internal/workflow"
)

func newDubCommand(ctx *commandContext) *cobra.Command {
	var langFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "dub URL",
		Short: "Download, translate, and dub a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requireBinaries(cfg); err != nil {
				return err
			}

			lang := strings.TrimSpace(langFlag)
			if lang == "" {
				lang = cfg.Dubbing.TargetLanguage
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			manager, err := workflow.NewManager(cfg, store, ctx.logger, workflow.Stages(cfg), nil)
			if err != nil {
				return err
			}

			job, err := store.NewJob(runCtx, args[0], lang, strings.TrimSpace(outputFlag))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dubbing %s into %s (job %d)\n", args[0], lang, job.ID)
			if err := manager.RunJob(runCtx, job); err != nil {
				return fmt.Errorf("job %d failed at %s: %s", job.ID, job.FailureStage, job.ErrorMessage)
			}

			fmt.Fprintf(out, "Done: %s\n", job.OutputPath)
			if job.DroppedSegments > 0 {
				fmt.Fprintf(out, "Note: %d of %d segments were dropped and stay silent.\n",
					job.DroppedSegments, job.SegmentCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Target language code (see 'globaldub langs')")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Explicit output file path")
	return cmd
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var langFlag string

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Dub every URL listed in a file",
		Long:  "Reads one URL per line; blank lines and lines starting with # are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requireBinaries(cfg); err != nil {
				return err
			}

			urls, err := workflow.ReadBatchFile(args[0])
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				return fmt.Errorf("batch file %s holds no URLs", args[0])
			}

			lang := strings.TrimSpace(langFlag)
			if lang == "" {
				lang = cfg.Dubbing.TargetLanguage
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			manager, err := workflow.NewManager(cfg, store, ctx.logger, workflow.Stages(cfg), nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dubbing %d videos into %s\n", len(urls), lang)
			results := manager.RunBatch(runCtx, urls, lang)

			failed := 0
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "ok"
				detail := result.OutputPath
				if !result.Succeeded() {
					failed++
					status = "failed"
					detail = result.Err.Error()
				}
				rows = append(rows, []string{result.SourceURL, status, detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"URL", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			if failed > 0 {
				return fmt.Errorf("%d of %d videos failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Target language code for every URL")
	return cmd
}

// requireBinaries fails fast when a required external tool is missing so a
// job does not die halfway through its pipeline.
func requireBinaries(cfg *config.Config) error {
	missing := deps.MissingRequired(deps.CheckBinaries(deps.Requirements(cfg)))
	if len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s (run 'globaldub check' for details)",
			strings.Join(missing, ", "))
	}
	return nil
}
