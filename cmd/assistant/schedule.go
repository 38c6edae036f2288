package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/domain/constant"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [HH:MM]",
	Short: "Arm the shutdown countdown (the saved time when none is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSchedule,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Abort a pending shutdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := buildContainer(cmd)
		if err != nil {
			return err
		}
		if err := c.ShutdownService().Cancel(cmd.Context(), constant.SourceCLI); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Scheduled shutdown cancelled.")
		return nil
	},
}

func init() {
	scheduleCmd.Flags().Bool("repeat", false, "re-arm the same time every day")
	scheduleCmd.Flags().Bool("no-repeat", false, "stop re-arming every day")
	scheduleCmd.MarkFlagsMutuallyExclusive("repeat", "no-repeat")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	req := dto.ScheduleShutdownRequest{Source: constant.SourceCLI}
	if len(args) == 1 {
		req.Time = args[0]
	}
	if cmd.Flags().Changed("repeat") {
		v := true
		req.Repeat = &v
	}
	if cmd.Flags().Changed("no-repeat") {
		v := false
		req.Repeat = &v
	}

	c, err := buildContainer(cmd)
	if err != nil {
		return err
	}
	resp, err := c.ShutdownService().Schedule(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Shutdown scheduled for %s (in %s)\n",
		resp.TargetTime.Format("2006-01-02 15:04"), time.Duration(resp.DelaySeconds)*time.Second)
	return nil
}
