package schedule

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/simorq_frontdesk/cmd/cmdutil"
	"github.com/Alijeyrad/simorq_frontdesk/internal/app"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/view"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/scheduling"
)

func NewScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the clinic schedule in the terminal",
	}

	cmd.AddCommand(NewSlotsCommand())
	cmd.AddCommand(NewTimelineCommand("week", view.ModeWeek, "Show the week starting at --date"))
	cmd.AddCommand(NewTimelineCommand("day", view.ModeToday, "Show the day agenda for --date"))

	return cmd
}

// addCommonFlags registers the flags every schedule subcommand takes.
func addCommonFlags(cmd *cobra.Command) {
	cmdutil.AddTokenFlag(cmd)
	cmd.Flags().String("date", "", "day to show, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringP("output", "o", "text", "output format: text or json")
}

func service(cmd *cobra.Command) (scheduling.Service, error) {
	env, err := cmdutil.Load(cmd)
	if err != nil {
		return nil, err
	}
	// No Redis on the client side; view state is not needed here.
	return app.ProvideSchedulingService(env.Client, nil, env.Cfg)
}

func dateFlag(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		return time.Now(), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", raw)
	}
	return d, nil
}

// write prints v as JSON or hands it to render, per --output.
func write[T any](cmd *cobra.Command, v T, render func(T) string) error {
	format, _ := cmd.Flags().GetString("output")
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return writeJSON(out, v)
	case "text", "":
		_, err := fmt.Fprintln(out, render(v))
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
