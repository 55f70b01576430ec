package cli

import (
	"github.com/spf13/cobra"

	"github.com/riluq/flutter/internal/doctor"
)

func newDoctorCmd(deps Deps) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Show information about the installed tooling and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return deps.Doctor.Run(cmd.Context(), cmd.OutOrStdout(), doctor.Options{
				Verbose: verbose,
				NoColor: noColor,
			})
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}
