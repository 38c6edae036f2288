package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/domain/timeofday"
)

func sampleHistory() []dto.ScheduleResponse {
	return []dto.ScheduleResponse{{
		ID:           3,
		TimeOfDay:    "18:30",
		TargetTime:   time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC),
		DelaySeconds: 1800,
		Status:       "armed",
		Source:       "cli",
	}}
}

func capture() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	return cmd, buf
}

func TestPrintHistory_Table(t *testing.T) {
	cmd, buf := capture()
	require.NoError(t, printHistory(cmd, sampleHistory(), "table"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "2024-01-01 18:30")
	assert.Contains(t, lines[1], "armed")
}

func TestPrintHistory_YAML(t *testing.T) {
	cmd, buf := capture()
	require.NoError(t, printHistory(cmd, sampleHistory(), "yaml"))

	assert.Contains(t, buf.String(), "time_of_day: \"18:30\"")
	assert.Contains(t, buf.String(), "delay_seconds: 1800")
}

func TestPrintHistory_JSON(t *testing.T) {
	cmd, buf := capture()
	require.NoError(t, printHistory(cmd, sampleHistory(), "json"))

	assert.Contains(t, buf.String(), `"source": "cli"`)
}

func TestPrintHistory_UnknownFormat(t *testing.T) {
	cmd, _ := capture()
	assert.Error(t, printHistory(cmd, nil, "xml"))
}

func TestResolveCommand(t *testing.T) {
	buf := &bytes.Buffer{}
	resolveCmd.SetOut(buf)
	t.Cleanup(func() { resolveCmd.SetOut(nil) })

	require.NoError(t, resolveCmd.RunE(resolveCmd, []string{"07:15"}))
	assert.Contains(t, buf.String(), "Target:")
	assert.Contains(t, buf.String(), "07:15:00")

	assert.Error(t, resolveCmd.RunE(resolveCmd, []string{"7:75"}))
}

func TestPrintResolution_ClockChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	r, err := timeofday.Resolve("18:00", time.Date(2024, 10, 26, 19, 0, 0, 0, loc))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	printResolution(buf, r)

	assert.Contains(t, buf.String(), "Target: 2024-10-27 18:00:00 GMT")
	assert.Contains(t, buf.String(), "Delay:  82800s")
	assert.Contains(t, buf.String(), "Fires:  2024-10-27 17:00:00 GMT (clocks change, -1h0m0s from target)")

	buf.Reset()
	r, err = timeofday.Resolve("18:00", time.Date(2024, 5, 5, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	printResolution(buf, r)
	assert.NotContains(t, buf.String(), "Fires:")
}

func TestRootCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "resolve", "schedule", "cancel", "history"} {
		assert.True(t, names[want], want)
	}
}
