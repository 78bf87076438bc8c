package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"globaldub/internal/language"
)

func newLangsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "langs",
		Short:       "List supported dubbing languages and their voices",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, target := range language.Supported() {
				rows = append(rows, []string{target.Code, target.DisplayName, target.Voice})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Language", "Voice"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
