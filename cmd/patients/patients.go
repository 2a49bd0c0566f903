package patients

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/simorq_frontdesk/cmd/cmdutil"
	"github.com/Alijeyrad/simorq_frontdesk/internal/app"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/patient"
	"github.com/Alijeyrad/simorq_frontdesk/internal/termview"
)

func NewPatientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Patient lookup",
	}

	cmd.AddCommand(NewFindCommand())

	return cmd
}

func NewFindCommand() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "find [query]",
		Short: "Search patients by name, phone or date of birth",
		Long: `Search patients. With a query argument, print the matches once.
Without one, open a search box that searches as you type.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.Load(cmd)
			if err != nil {
				return err
			}
			ctx, err := cmdutil.Context(cmd)
			if err != nil {
				return err
			}
			svc := app.ProvidePatientService(env.Client)

			if len(args) == 1 {
				found, err := svc.Search(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), termview.Patients(found))
				return err
			}

			return termview.RunPatientSearch(ctx, svc, delay, os.Stdin, cmd.OutOrStdout())
		},
	}

	cmdutil.AddTokenFlag(cmd)
	cmd.Flags().DurationVar(&delay, "delay", patient.DefaultSearchDelay, "idle time before a search fires")

	return cmd
}
