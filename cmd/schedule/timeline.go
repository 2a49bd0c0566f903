package schedule

import (
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/simorq_frontdesk/cmd/cmdutil"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/view"
	"github.com/Alijeyrad/simorq_frontdesk/internal/termview"
)

// NewTimelineCommand shows one range in the given view mode.
func NewTimelineCommand(use string, mode view.Mode, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFlag(cmd)
			if err != nil {
				return err
			}

			svc, err := service(cmd)
			if err != nil {
				return err
			}
			ctx, err := cmdutil.Context(cmd)
			if err != nil {
				return err
			}

			tl, err := svc.Timeline(ctx, mode, date)
			if err != nil {
				return err
			}
			return write(cmd, tl, termview.Timeline)
		},
	}

	addCommonFlags(cmd)

	return cmd
}
