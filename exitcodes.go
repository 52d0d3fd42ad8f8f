package main

import "fmt"

// Exit codes for the sheetscope CLI.
const (
	ExitOK           = 0 // Success.
	ExitInvalidArgs  = 1 // Bad arguments, config or unsupported file type.
	ExitParseFailure = 2 // The file could not be parsed.
)

type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the process exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}
