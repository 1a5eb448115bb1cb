package command

import (
	"io"
	"time"

	"github.com/adamavenir/dispatch/internal/core"
	"github.com/adamavenir/dispatch/internal/relay"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CommandContext holds per-invocation state shared by commands.
type CommandContext struct {
	Config     *core.Config
	ConfigPath string
	Logger     zerolog.Logger
	logCloser  io.Closer
}

// GetContext loads configuration (file, .env, environment, then flags) and
// opens the log file.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = core.ConfigPath()
		if err != nil {
			return nil, err
		}
	}
	config, err := core.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		config.URL = url
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger, closer, err := core.NewLogger(*config)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("command", cmd.Name()).Str("url", config.URL).Msg("starting")

	return &CommandContext{
		Config:     config,
		ConfigPath: path,
		Logger:     logger,
		logCloser:  closer,
	}, nil
}

// Close flushes and closes the log file.
func (c *CommandContext) Close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close()
	}
}

// RelayClient builds a client for the configured relay.
func (c *CommandContext) RelayClient() (*relay.Client, error) {
	return relay.NewClient(c.Config.URL, time.Duration(c.Config.Timeout), c.Logger)
}
