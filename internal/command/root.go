package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const AppName = "dispatch"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Dispatch - terminal composer for a Discord relay",
		Long:          "Dispatch composes messages with @user and #channel mentions and image attachments, and posts them to a Discord relay.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runCompose,
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("config", "", "config file (default ~/.config/dispatch/config.json)")
	cmd.PersistentFlags().String("url", "", "relay base URL")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")
	addComposeFlags(cmd)

	cmd.AddCommand(
		NewComposeCmd(),
		NewSendCmd(),
		NewLookupCmd(),
		NewConfigCmd(),
	)

	return cmd
}

func Execute() error {
	cmd := NewRootCmd(Version)
	err := cmd.Execute()
	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
	}
	return err
}
