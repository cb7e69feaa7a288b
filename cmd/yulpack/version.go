package main

import (
	"fmt"

	"github.com/deepnoodle-ai/yulpack/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *app) versionCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "json":
				info := map[string]string{"version": version, "commit": commit, "date": date}
				return report.JSON(a.stdout, info, !color.NoColor && isTerminal(a.stdout))
			case "text", "":
				_, err := fmt.Fprintf(a.stdout, "yulpack %s (commit %s, built %s)\n", version, commit, date)
				return err
			default:
				return fmt.Errorf("unknown output format: %s", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}
