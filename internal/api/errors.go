package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport = errors.New("transport")
	ErrStatus    = errors.New("status")
	ErrDecode    = errors.New("decode")
)

// FetchError reports which call failed and why.
// StatusCode is zero when no response arrived.
type FetchError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound
}
