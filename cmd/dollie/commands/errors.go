package commands

// silentExitError carries a process exit code past Cobra without Cobra
// printing its own "Error: ..." line for it. The command that returns one
// must set cmd.SilenceErrors = true first, since the message it reports
// (if any) was already written to stdout by the command itself.
type silentExitError struct {
	code int
}

func (e *silentExitError) Error() string { return "" }

// SilentExit builds the error a RunE returns when the run completed
// normally but still needs a non-zero exit code for scripts to key off
// of, e.g. "new" leaving unresolved conflicts behind. It carries no
// message of its own: the command has already told the user what
// happened before returning it.
func SilentExit(code int) error {
	return &silentExitError{code: code}
}

// ExitCode unwraps the code a silentExitError carries, or 0 for any other
// error (including nil).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if se, ok := err.(*silentExitError); ok {
		return se.code
	}
	return 0
}
