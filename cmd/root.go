package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/simorq_frontdesk/cmd/http"
	patientscmd "github.com/Alijeyrad/simorq_frontdesk/cmd/patients"
	schedulecmd "github.com/Alijeyrad/simorq_frontdesk/cmd/schedule"
	systemcmd "github.com/Alijeyrad/simorq_frontdesk/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "frontdesk",
	Short: "Front-desk scheduling for a clinic records API.",
	Long: `Frontdesk serves the clinic's scheduling screens: the week and day timelines,
the booking form's free slots, appointment check-in and patient lookup.
It keeps no records of its own and forwards every write to the clinic API.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(schedulecmd.NewScheduleCommand())
	rootCmd.AddCommand(patientscmd.NewPatientsCommand())
}
