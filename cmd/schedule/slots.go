package schedule

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/simorq_frontdesk/cmd/cmdutil"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/scheduling"
	"github.com/Alijeyrad/simorq_frontdesk/internal/termview"
)

func NewSlotsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List free start and end times for a day",
		Long: `List the booking form's start times for a day, marking the ones already
taken. With --start, also list the end times a booking from that start may use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFlag(cmd)
			if err != nil {
				return err
			}
			req := scheduling.SlotsRequest{Date: date}
			req.ExcludeID, _ = cmd.Flags().GetInt64("exclude")

			if raw, _ := cmd.Flags().GetString("start"); raw != "" {
				clock, err := time.Parse("15:04", raw)
				if err != nil {
					return fmt.Errorf("invalid --start %q: want HH:MM", raw)
				}
				req.Start = time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)
			}

			svc, err := service(cmd)
			if err != nil {
				return err
			}
			ctx, err := cmdutil.Context(cmd)
			if err != nil {
				return err
			}

			opts, err := svc.Slots(ctx, req)
			if err != nil {
				return err
			}
			return write(cmd, opts, termview.Slots)
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().String("start", "", "chosen start time, HH:MM")
	cmd.Flags().Int64("exclude", 0, "appointment id being edited; its own slot stays free")

	return cmd
}
