package diag

import (
	"errors"
	"fmt"
)

// FatalError stops the compilation. It travels up through ordinary error
// returns; cmd/kilnc turns it into the process exit status.
type FatalError struct {
	Msg string
	Err error
	// Reported is set once the message was already printed.
	Reported bool
}

func (e *FatalError) Error() string {
	return e.Msg
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatalf builds an unreported FatalError.
func Fatalf(format string, args ...any) *FatalError {
	return &FatalError{Msg: fmt.Sprintf(format, args...)}
}

// ErrAborted is wrapped by the fatal error an error gate returns.
var ErrAborted = errors.New("aborted due to previous errors")

// IsFatal reports whether err is or wraps a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// IsReported reports whether err carries a FatalError that was already
// printed.
func IsReported(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe) && fe.Reported
}
