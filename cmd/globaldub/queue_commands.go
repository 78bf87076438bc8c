package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"globaldub/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and maintain the job queue",
	}
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all dub jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "Queue is empty.")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				detail := job.ProgressMessage
				if job.Status == queue.StatusFailed {
					detail = fmt.Sprintf("%s: %s", job.FailureStage, job.ErrorMessage)
				} else if job.Status == queue.StatusCompleted {
					detail = job.OutputPath
				}
				segments := ""
				if job.SegmentCount > 0 {
					segments = strconv.Itoa(job.SegmentCount)
					if job.DroppedSegments > 0 {
						segments = fmt.Sprintf("%d (-%d)", job.SegmentCount, job.DroppedSegments)
					}
				}
				rows = append(rows, []string{
					strconv.FormatInt(job.ID, 10),
					truncate(job.SourceURL, 48),
					job.TargetLanguage,
					string(job.Status),
					segments,
					truncate(detail, 60),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "URL", "Lang", "Status", "Segments", "Detail"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove completed and failed jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			cleared, err := store.ClearTerminal(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d finished jobs.\n", cleared)
			return nil
		},
	}
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
