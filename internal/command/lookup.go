package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adamavenir/dispatch/internal/core"
	"github.com/adamavenir/dispatch/internal/types"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// NewLookupCmd creates the lookup command.
func NewLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <@query|#query>",
		Short: "Look up users or channels the way the composer does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mention, err := parseLookupArg(args[0])
			if err != nil {
				return writeCommandError(cmd, err)
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

			reqCtx, cancel := context.WithTimeout(cmd.Context(), time.Duration(ctx.Config.Timeout))
			defer cancel()
			resp, err := client.Autocomplete(reqCtx, mention.Kind, mention.Query)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(resp)
			}
			if !resp.Success {
				msg := resp.Error
				if msg == "" {
					msg = "lookup failed"
				}
				return writeCommandError(cmd, fmt.Errorf("%s", msg))
			}
			writeLookupRows(cmd, mention.Kind, resp.Results)
			return nil
		},
	}
	return cmd
}

// parseLookupArg accepts "@query" or "#query"; the query may be empty.
func parseLookupArg(arg string) (core.Mention, error) {
	mention, ok := core.FindMention(arg, len([]rune(arg)))
	if !ok || mention.Start != 0 {
		return core.Mention{}, fmt.Errorf("expected @query or #query, got %q", arg)
	}
	return mention, nil
}

func writeLookupRows(cmd *cobra.Command, kind types.MentionKind, results []types.Suggestion) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No matches")
		return
	}
	width := 0
	for _, result := range results {
		if w := runewidth.StringWidth(kind.Trigger() + result.Name); w > width {
			width = w
		}
	}
	for _, result := range results {
		name := runewidth.FillRight(kind.Trigger()+result.Name, width)
		fmt.Fprintf(out, "%s  %s\n", name, core.MentionToken(kind, result.ID))
	}
}
