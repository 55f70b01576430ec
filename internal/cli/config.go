package cli

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/riluq/flutter/internal/boot"
	"github.com/riluq/flutter/internal/settings"
)

func newConfigCmd(deps Deps) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage flutter configuration.

Examples:
  flutter config list                       # List all settings
  flutter config get analytics.enabled     # Get a specific setting
  flutter config set analytics.enabled false

Available settings:
  analytics.enabled       - Send anonymous usage statistics (true/false)
  crash.reporting         - Send crash reports to the project (true/false)`,
	}
	configCmd.AddCommand(newConfigListCmd(deps))
	configCmd.AddCommand(newConfigGetCmd(deps))
	configCmd.AddCommand(newConfigSetCmd(deps))
	return configCmd
}

// exactArgs mirrors cobra.ExactArgs but surfaces the mismatch as a usage
// error so the harness exits with the usage code instead of crashing.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &boot.UsageError{Message: fmt.Sprintf("%s: %v", cmd.CommandPath(), err)}
		}
		return nil
	}
}

func newConfigListCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := deps.Settings.List()
			if err != nil {
				return fmt.Errorf("failed to list config: %w", err)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Key", "Value"})
			table.SetBorder(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetCenterSeparator("")
			table.SetColumnSeparator("")
			table.SetRowSeparator("")
			table.SetHeaderLine(false)
			table.SetTablePadding("  ")
			table.SetNoWhiteSpace(true)

			for _, key := range settings.ValidKeys() {
				table.Append([]string{key, values[key]})
			}

			table.Render()
			return nil
		},
	}
}

func newConfigGetCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !settings.IsValidKey(key) {
				return &boot.ToolExit{Message: fmt.Sprintf("unknown config key: %s\nValid keys: %s",
					key, strings.Join(settings.ValidKeys(), ", "))}
			}

			value, err := deps.Settings.Get(key)
			if err != nil {
				return fmt.Errorf("failed to get config: %w", err)
			}

			cmd.Println(value)
			return nil
		},
	}
}

func newConfigSetCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !settings.IsValidKey(key) {
				return &boot.ToolExit{Message: fmt.Sprintf("unknown config key: %s\nValid keys: %s",
					key, strings.Join(settings.ValidKeys(), ", "))}
			}
			if value != "true" && value != "false" {
				return &boot.ToolExit{Message: "value must be 'true' or 'false'"}
			}

			if err := deps.Settings.Set(key, value); err != nil {
				return fmt.Errorf("failed to set config: %w", err)
			}

			cmd.Printf("%s = %s\n", key, value)
			return nil
		},
	}
}
