package common

// CustomError carries a stable error code alongside the message.
type CustomError struct {
	Code    string // machine-readable error code
	Message string // human-readable message
	Err     error  // original error
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError creates a new CustomError.
func NewError(code string, message string, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Predefined error codes.
const (
	ErrCodeGenerationFailed  = "GENERATION_FAILED"
	ErrCodeLookupUnavailable = "LOOKUP_UNAVAILABLE"
	ErrCodeStoreUnavailable  = "STORE_UNAVAILABLE"
	ErrCodeInvalidPlan       = "INVALID_PLAN"
)

// Predefined errors.
var (
	ErrGenerationFailed  = NewError(ErrCodeGenerationFailed, "meal plan generation failed", nil)
	ErrLookupUnavailable = NewError(ErrCodeLookupUnavailable, "recipe lookup service unavailable", nil)
	ErrStoreUnavailable  = NewError(ErrCodeStoreUnavailable, "plan store unavailable", nil)
	ErrInvalidPlan       = NewError(ErrCodeInvalidPlan, "invalid plan state", nil)
)
