package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/adamavenir/dispatch/internal/core"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the merged configuration",
			Args:  cobra.NoArgs,
			RunE:  runConfigShow,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := configPathFlag(cmd)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a config file with default settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := configPathFlag(cmd)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				force, _ := cmd.Flags().GetBool("force")
				if _, err := os.Stat(path); err == nil && !force {
					return writeCommandError(cmd, fmt.Errorf("%s already exists (use --force to overwrite)", path))
				} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
					return writeCommandError(cmd, err)
				}
				if err := core.WriteConfig(path, core.DefaultConfig()); err != nil {
					return writeCommandError(cmd, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			},
		},
	)
	cmd.PersistentFlags().Bool("force", false, "overwrite an existing config file")

	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ctx, err := GetContext(cmd)
	if err != nil {
		return writeCommandError(cmd, err)
	}
	defer ctx.Close()

	if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(ctx.Config)
	}
	data, err := json.MarshalIndent(ctx.Config, "", "  ")
	if err != nil {
		return writeCommandError(cmd, err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", ctx.ConfigPath)
	fmt.Fprintln(out, string(data))
	return nil
}

func configPathFlag(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return core.ConfigPath()
}
