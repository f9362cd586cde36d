// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task reference).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a transport or protocol failure talking to the endpoint.
	BackendError = 3

	// AppError indicates an error reported by the server in a response body.
	AppError = 4
)
