package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"shutdownassistant/internal/application/dto"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent shutdown requests",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of entries")
	historyCmd.Flags().StringP("output", "o", "table", "output format: table, json or yaml")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	output, _ := cmd.Flags().GetString("output")

	c, err := buildContainer(cmd)
	if err != nil {
		return err
	}
	history, err := c.ShutdownService().History(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return printHistory(cmd, history, output)
}

func printHistory(cmd *cobra.Command, history []dto.ScheduleResponse, output string) error {
	out := cmd.OutOrStdout()
	switch output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(history)
	case "table":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIME\tTARGET\tSTATUS\tSOURCE")
		for _, s := range history {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				s.ID, s.TimeOfDay, s.TargetTime.Format("2006-01-02 15:04"), s.Status, s.Source)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
