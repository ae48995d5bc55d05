package constants

import "net/http"

// CodedError is an error carrying the HTTP status the API layer should
// answer with. The echo error handler unwraps chains looking for one.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string { return e.msg }

func (e *CodedError) Code() int { return e.code }

var (
	ErrBadRequest          = NewCodedError(http.StatusBadRequest, "bad request")
	ErrNotFound            = NewCodedError(http.StatusNotFound, "not found")
	ErrUpstreamUnavailable = NewCodedError(http.StatusBadGateway, "cannot reach data service")
)
