package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
// ErrAbandoned comes before the generic entries so an abandonment wrapped in a
// file error still reads as an abandonment.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Lock
	// ===================
	{
		err: ErrAbandoned,
		info: ErrorInfo{
			Message: "The lock was acquired, but its previous holder exited without releasing it.",
			Action:  "Check the protected resource for a partially applied change.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "The lock is held by another process and did not become free in time.",
			Action:  "Run 'namedlock status <name>' to see the holder, or retry with a longer --timeout.",
		},
	},
	{
		err: ErrLockDisposed,
		info: ErrorInfo{
			Message: "The lock handle was used after it was closed.",
		},
	},
	{
		err: ErrNotOwner,
		info: ErrorInfo{
			Message: "The lock was released by a handle that does not hold it.",
		},
	},
	{
		err: ErrLockFile,
		info: ErrorInfo{
			Message: "The lock file could not be opened or locked.",
			Action:  "Check permissions on the lock directory (lock.dir).",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigInvalidLock,
		info: ErrorInfo{
			Message: "The lock configuration is invalid.",
			Action:  "Run 'namedlock config show' and fix the lock section.",
		},
	},
	{
		err: ErrConfigInvalidDemo,
		info: ErrorInfo{
			Message: "The demo configuration is invalid.",
			Action:  "Run 'namedlock config show' and fix the demo section.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},

	// ===================
	// Demo
	// ===================
	{
		err: ErrDemoCorrupted,
		info: ErrorInfo{
			Message: "The demo file does not contain exactly one worker's complete output.",
			Action:  "Run the demo again with --locked to see the lock prevent this.",
		},
	},
	{
		err: ErrWorkerFailed,
		info: ErrorInfo{
			Message: "One or more worker processes failed.",
			Action:  "Re-run with --verbose to see each worker's log.",
		},
	},
	{
		err: ErrOperationCanceled,
		info: ErrorInfo{
			Message: "Operation canceled.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that have no clear action, the action string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
