package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrTeamAlreadyExists = errors.New("team_already_exists")
	ErrTeamNotFound      = errors.New("team_not_found")
	ErrVersionConflict   = errors.New("version_conflict")
	ErrTradeNotValid     = errors.New("trade_not_valid")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ExecutionError is returned when a trade is executed against team state
// that no longer validates. Nothing is applied; the caller must validate
// again.
type ExecutionError struct {
	Violation Violation
}

func (e *ExecutionError) Error() string {
	return "trade_not_valid: " + e.Violation.Reason
}

// Is lets errors.Is(err, ErrTradeNotValid) match.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrTradeNotValid
}
