package domain

// Result is the uniform outcome of every mutating operation. Domain failures
// (validation, conflicts, authorization, missing records, state preconditions)
// are reported here rather than as Go errors; callers only ever see a Result.
type Result struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func OK(message string) Result {
	return Result{Success: true, Message: message}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

// Invalid reports per-field validation failures.
func Invalid(errors map[string][]string) Result {
	return Result{Success: false, Message: "Validation failed", Errors: errors}
}
