package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"globaldub/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = config.DefaultConfigPath()
			}
			target = config.ExpandPath(target)

			if _, err := os.Stat(target); err == nil {
				if !overwrite {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				}
				if err := os.Remove(target); err != nil {
					return fmt.Errorf("remove existing config: %w", err)
				}
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("check config path: %w", err)
			}

			if err := config.WriteSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var pathFlag string

	cmd := &cobra.Command{
		Use:         "show",
		Short:       "Show the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fromFile, err := config.Load(pathFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !fromFile {
				fmt.Fprintln(out, "No config file found; showing defaults.")
			}
			rows := [][]string{
				{"workspace_dir", cfg.Paths.WorkspaceDir},
				{"output_dir", cfg.Paths.OutputDir},
				{"log_dir", cfg.Paths.LogDir},
				{"target_language", cfg.Dubbing.TargetLanguage},
				{"original_audio_volume", fmt.Sprintf("%.2f", cfg.Dubbing.OriginalAudioVolume)},
				{"max_speed_factor", fmt.Sprintf("%.2f", cfg.Dubbing.MaxSpeedFactor)},
				{"sample_rate", fmt.Sprintf("%d", cfg.Dubbing.SampleRate)},
				{"whisper_model", cfg.Whisper.Model},
				{"max_concurrency", fmt.Sprintf("%d", cfg.Workflow.MaxConcurrency)},
				{"stage_timeout_seconds", fmt.Sprintf("%d", cfg.Workflow.StageTimeoutSeconds)},
				{"log_format", cfg.Logging.Format},
				{"log_level", cfg.Logging.Level},
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&pathFlag, "path", "p", "", "Configuration file to inspect")
	return cmd
}
