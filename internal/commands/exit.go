package commands

import "fmt"

// Exit codes surfaced through main. Only the missing data root makes a
// run fail; an otherwise clean run exits zero no matter how many files
// were deleted.
const (
	exitCodeUsage       = 1
	exitCodeRootMissing = 2
)

type ExitError interface {
	error
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func newExitError(code int, err error) ExitError {
	if code == 0 {
		code = 1
	}
	return &exitError{code: code, err: err}
}
