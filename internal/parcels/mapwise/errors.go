package mapwise

import "fmt"

// Kind classifies a MapWise API failure into the fixed taxonomy the
// rest of the service works with. Handlers map kinds to HTTP responses;
// the bulk resolver maps every kind except KindNotFound to a per-PIN
// fetch failure.
type Kind string

const (
	KindBadRequest   Kind = "upstream_bad_request"
	KindUnauthorized Kind = "upstream_unauthorized"
	KindForbidden    Kind = "upstream_forbidden"
	KindNotFound     Kind = "upstream_not_found"
	KindRateLimited  Kind = "rate_limited"
	KindUnavailable  Kind = "upstream_unavailable"
	KindNetwork      Kind = "network_error"
	KindUnexpected   Kind = "upstream_error"
)

// APIError is a classified MapWise failure. StatusCode is zero for
// transport-level failures.
type APIError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("mapwise: %s (status %d)", e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("mapwise: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("mapwise: %s", e.Kind)
}

func (e *APIError) Unwrap() error { return e.Err }

// classifyStatus maps a non-2xx upstream status to an error kind.
func classifyStatus(status int) Kind {
	switch status {
	case 400:
		return KindBadRequest
	case 401:
		return KindUnauthorized
	case 403:
		return KindForbidden
	case 404:
		return KindNotFound
	case 429:
		return KindRateLimited
	}
	if status >= 500 && status <= 599 {
		return KindUnavailable
	}
	return KindUnexpected
}
