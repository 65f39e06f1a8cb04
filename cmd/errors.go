package cmd

import (
	"errors"

	"github.com/mkovac/tasktrack/internal/task"
)

// ArgumentError reports a CLI usage problem: wrong arity or an
// unparseable argument. The task store is never invoked.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

// Exit codes by error kind.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitArgument   = 2
	ExitValidation = 3
	ExitNotFound   = 4
	ExitStorage    = 5
)

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var argErr *ArgumentError
	var valErr *task.ValidationError
	var nfErr *task.NotFoundError
	var stErr *task.StorageError
	switch {
	case errors.As(err, &argErr):
		return ExitArgument
	case errors.As(err, &valErr):
		return ExitValidation
	case errors.As(err, &nfErr):
		return ExitNotFound
	case errors.As(err, &stErr):
		return ExitStorage
	default:
		return ExitError
	}
}
