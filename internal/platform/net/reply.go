package net

import (
	"net/http"

	perr "wikipub/internal/platform/errors"
)

// Envelope is the body of every API response, success or failure
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Success wraps data; a zero status means 200
func Success(status int, data any, reqID string) Envelope {
	if status == 0 {
		status = http.StatusOK
	}
	return Envelope{StatusCode: status, Status: http.StatusText(status), RequestID: reqID, Data: data}
}

// Failure maps err to its HTTP status and envelope. Only the message reaches
// the client; wrapped causes stay in the logs
func Failure(err error, reqID string) Envelope {
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		RequestID:  reqID,
	}
}
