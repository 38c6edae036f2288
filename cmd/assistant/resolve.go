package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"shutdownassistant/internal/domain/timeofday"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve HH:MM",
	Short: "Show when a time of day next occurs, without scheduling anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := timeofday.Resolve(args[0], time.Now())
		if err != nil {
			return err
		}
		printResolution(cmd.OutOrStdout(), r)
		return nil
	},
}

// printResolution adds a Fires line when a clock change moves the real end
// of the countdown away from the target.
func printResolution(w io.Writer, r timeofday.ResolvedSchedule) {
	const layout = "2006-01-02 15:04:05 MST"
	fmt.Fprintf(w, "Target: %s\nDelay:  %ds (%s)\n",
		r.Target.Format(layout), r.DelaySeconds, time.Duration(r.DelaySeconds)*time.Second)
	if drift := r.Drift(); drift != 0 {
		fmt.Fprintf(w, "Fires:  %s (clocks change, %+v from target)\n",
			r.FiresAt.In(r.Target.Location()).Format(layout), drift)
	}
}
