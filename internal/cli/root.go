// Package cli is the command registry: it declares the tool's sub-commands
// and resolves one invocation to the matching command. Failure handling
// lives one level up, in the boot package.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/riluq/flutter/internal/boot"
	"github.com/riluq/flutter/internal/doctor"
	"github.com/riluq/flutter/internal/settings"
	"github.com/riluq/flutter/internal/telemetry"
)

// Deps are the collaborators the built-in commands need. Tests supply
// fakes; main wires the real ones.
type Deps struct {
	Settings  *settings.Store
	Telemetry *telemetry.Telemetry
	Doctor    *doctor.Doctor
	Version   string
	Out       io.Writer
	Err       io.Writer
}

// Registry adapts the cobra command tree to the harness contract: it
// resolves and runs the command for an invocation and surfaces command
// lines it cannot parse as *boot.UsageError.
type Registry struct {
	root *cobra.Command
}

func New(deps Deps, extra ...*cobra.Command) *Registry {
	root := &cobra.Command{
		Use:   "flutter",
		Short: "A command-line tool for building and diagnosing projects",
		Long: `Flutter is a command-line tool for building projects and diagnosing the
environment they are built in.`,
		// The harness prints usage errors and decides exit codes itself.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if deps.Telemetry != nil {
				deps.Telemetry.Record("command."+cmd.Name(), nil)
			}
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &boot.UsageError{Message: err.Error()}
	})
	if deps.Out != nil {
		root.SetOut(deps.Out)
	}
	if deps.Err != nil {
		root.SetErr(deps.Err)
	}

	root.AddCommand(newVersionCmd(deps))
	root.AddCommand(newDoctorCmd(deps))
	root.AddCommand(newConfigCmd(deps))
	root.AddCommand(extra...)
	return &Registry{root: root}
}

// Execute implements boot.Registry.
func (r *Registry) Execute(ctx context.Context, args []string) error {
	if _, _, err := r.root.Find(args); err != nil {
		return &boot.UsageError{Message: err.Error()}
	}
	r.root.SetArgs(args)
	return r.root.ExecuteContext(ctx)
}

func newVersionCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("flutter %s\n", deps.Version)
		},
	}
}
