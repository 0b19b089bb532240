package pulse

import (
	"errors"
	"fmt"
)

// GenericErrorMessage is what users see whatever the failure was.
// The cause goes to the diagnostic log only.
const GenericErrorMessage = "Falha ao carregar os dados da carteira. Tente novamente mais tarde."

// ErrBusy is returned when a refresh is requested while one is running.
var ErrBusy = errors.New("a refresh cycle is already running")

// ErrSuperseded is returned by FetchSnapshot when a more recent fetch was
// issued before this one resolved. Its result has been dropped.
var ErrSuperseded = errors.New("superseded by a more recent fetch")

// TransportError means the request never got an HTTP response: network
// unreachable, DNS failure, timeout or cancellation.
type TransportError struct {
	Method, Path string
	Err          error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport: %v", e.Method, e.Path, e.Err)
}
func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response.
type HTTPError struct {
	Method, Path string
	StatusCode   int
	Message      string // backend "message" or "error" field, if any
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

// PayloadError is a 2xx response whose body is not the expected JSON.
type PayloadError struct {
	Path string
	Err  error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: malformed payload: %v", e.Path, e.Err)
}
func (e *PayloadError) Unwrap() error { return e.Err }

// BusinessError is a 2xx response where the backend reports a failure in
// its body ("status": "error" or "success": false).
type BusinessError struct {
	Path    string
	Message string
}

func (e *BusinessError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend reported an error", e.Path)
	}
	return fmt.Sprintf("%s: backend reported an error: %s", e.Path, e.Message)
}

// Kind names the taxonomy class of err, for diagnostic logs.
func Kind(err error) string {
	var (
		te *TransportError
		he *HTTPError
		pe *PayloadError
		be *BusinessError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &he):
		return "http"
	case errors.As(err, &pe):
		return "payload"
	case errors.As(err, &be):
		return "business"
	default:
		return "unknown"
	}
}
