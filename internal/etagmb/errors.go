package etagmb

import "fmt"

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("etagmb: GET %s: status %d", e.URL, e.StatusCode)
}

// PayloadError is returned when a response body cannot be decoded or does not
// match the expected schema.
type PayloadError struct {
	Endpoint string
	Err      error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("etagmb: invalid %s payload: %v", e.Endpoint, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}
