package calculator

// ValidationError reports an input that violates an engine precondition.
// The engine never corrects such input on the caller's behalf.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "validation error: " + e.Reason
}

var (
	ErrEmptyParticipants    = ValidationError{Reason: "empty participants"}
	ErrMissingPayer         = ValidationError{Reason: "missing payer"}
	ErrMultiplePayers       = ValidationError{Reason: "multiple payers"}
	ErrDuplicateParticipant = ValidationError{Reason: "duplicate participant"}
	ErrUnknownParticipant   = ValidationError{Reason: "unknown participant"}
	ErrShareMismatch        = ValidationError{Reason: "shares do not sum to item amount"}
	ErrUnbalanced           = ValidationError{Reason: "unbalanced input"}
	ErrOverflow             = ValidationError{Reason: "amount overflow"}
)
