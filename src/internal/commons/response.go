package commons

type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// FailureResponse carries a payload on a failed outcome. Used where a
// rejected operation still produces a record the caller needs, such as a
// UPI transaction that ended FAILED at pin verification.
func FailureResponse[T any](message string, data T, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Data:    &data,
		Errors:  errors,
	}
}
