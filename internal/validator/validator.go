package validator

// Validator collects named validation failures for a request.
type Validator struct {
	Errors map[string]string
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if no errors have been recorded.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records an error message for a key, keeping the first message
// when the same key fails more than once.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check records an error message for a key when ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// ValidationError carries field-level failures out of a handler.
type ValidationError struct {
	Message string
	Errors  map[string]string
}

// NewValidationError wraps a message and the collected field errors.
func NewValidationError(message string, errors map[string]string) *ValidationError {
	return &ValidationError{Message: message, Errors: errors}
}

func (e *ValidationError) Error() string {
	return e.Message
}
