package keygen

// APIError is a custom error type to propagate HTTP status codes from the
// licensing service for strict error handling by callers.
type APIError struct {
	StatusCode int
	Msg        string
}

func (e *APIError) Error() string {
	return e.Msg
}
