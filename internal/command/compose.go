package command

import (
	"fmt"
	"os"
	"time"

	"github.com/adamavenir/dispatch/internal/chat"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewComposeCmd creates the interactive composer command.
func NewComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Interactive composer (default)",
		Args:  cobra.NoArgs,
		RunE:  runCompose,
	}
	addComposeFlags(cmd)
	return cmd
}

func addComposeFlags(cmd *cobra.Command) {
	cmd.Flags().String("watch", "", "attach images that appear in this folder")
	cmd.Flags().Bool("notify", false, "raise desktop notifications for send results")
}

func runCompose(cmd *cobra.Command, args []string) error {
	if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
		return writeCommandError(cmd, fmt.Errorf("--json not supported for interactive compose"))
	}
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return writeCommandError(cmd, fmt.Errorf("compose needs an interactive terminal; use `%s send` instead", AppName))
	}

	ctx, err := GetContext(cmd)
	if err != nil {
		return writeCommandError(cmd, err)
	}
	defer ctx.Close()

	client, err := ctx.RelayClient()
	if err != nil {
		return writeCommandError(cmd, err)
	}

	watchDir := ctx.Config.WatchDir
	if cmd.Flags().Changed("watch") {
		watchDir, _ = cmd.Flags().GetString("watch")
	}
	notify := ctx.Config.Notify
	if cmd.Flags().Changed("notify") {
		notify, _ = cmd.Flags().GetBool("notify")
	}

	options := chat.Options{
		Relay:       client,
		RelayURL:    client.BaseURL(),
		Debounce:    time.Duration(ctx.Config.Debounce),
		Toast:       time.Duration(ctx.Config.Toast),
		SendTimeout: time.Duration(ctx.Config.Timeout),
		WatchDir:    watchDir,
		Notify:      notify,
		Logger:      ctx.Logger,
	}
	if err := chat.Run(options); err != nil {
		return writeCommandError(cmd, err)
	}
	return nil
}

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
