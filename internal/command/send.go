package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adamavenir/dispatch/internal/composer"
	"github.com/adamavenir/dispatch/internal/core"
	"github.com/adamavenir/dispatch/internal/types"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewSendCmd creates the one-shot send command.
func NewSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send a message without the interactive composer",
		Long:  "Send a message and optional images to the relay. Use --file - to read an image from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			client, err := ctx.RelayClient()
			if err != nil {
				return writeCommandError(cmd, err)
			}

			draft := composer.New()
			draft.SetText(strings.Join(args, " "))
			files, _ := cmd.Flags().GetStringArray("file")
			for _, file := range files {
				att, err := loadSendFile(cmd, file)
				if err != nil {
					return writeCommandError(cmd, fmt.Errorf("attach %s: %w", file, err))
				}
				draft.AddAttachment(att)
			}
			attachments := draft.Attachments()

			reqCtx, cancel := context.WithTimeout(cmd.Context(), time.Duration(ctx.Config.Timeout))
			defer cancel()
			sender := &recordingSender{Sender: client}
			notice := draft.Send(reqCtx, sender)

			jsonMode, _ := cmd.Flags().GetBool("json")
			if jsonMode && sender.called && notice.Kind != composer.NoticeError {
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(sender.resp); err != nil {
					return writeCommandError(cmd, err)
				}
			}
			if !notice.OK() {
				ctx.Logger.Warn().Str("text", notice.Text).Msg("send failed")
				return writeCommandError(cmd, errors.New(strings.ReplaceAll(notice.Text, "\n", ": ")))
			}
			if !jsonMode {
				fmt.Fprintln(cmd.OutOrStdout(), formatSendSummary(notice.Text, attachments))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayP("file", "f", nil, "attach an image (repeatable, - for stdin)")
	return cmd
}

func loadSendFile(cmd *cobra.Command, file string) (types.Attachment, error) {
	if file == "-" {
		return core.ReadAttachment(cmd.InOrStdin())
	}
	return core.LoadAttachment(file)
}

// recordingSender keeps the raw relay response for --json output.
type recordingSender struct {
	composer.Sender
	called bool
	resp   types.SendResponse
}

func (s *recordingSender) Send(ctx context.Context, message string, files []types.Attachment) (types.SendResponse, error) {
	s.called = true
	resp, err := s.Sender.Send(ctx, message, files)
	s.resp = resp
	return resp, err
}

func formatSendSummary(text string, attachments []types.Attachment) string {
	if len(attachments) == 0 {
		return text
	}
	total := 0
	for _, att := range attachments {
		total += att.Size()
	}
	noun := "images"
	if len(attachments) == 1 {
		noun = "image"
	}
	return fmt.Sprintf("%s (%d %s, %s)", text, len(attachments), noun, humanize.Bytes(uint64(total)))
}
