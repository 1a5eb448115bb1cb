package command

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/spf13/cobra"
)

// reportedError marks an error that has already been printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func writeCommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())

	if isConnectionError(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: is the relay running? Set the address with --url or DISPATCH_URL.")
	}

	return &reportedError{err: err}
}

// isConnectionError reports whether err means nothing answered at the relay
// address. Cancellation, timeouts and TLS failures are not included.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial" && !opErr.Timeout()
}
