package errmsg

import "net/http"

// Beanstalk hook StatusError helpers surfaced by the handler.
var (
	HookTokenInvalid    = NewStatusError(http.StatusUnauthorized, "invalid hook token")
	HookUserNotFound    = NewStatusError(http.StatusUnprocessableEntity, "commit author has no tracker account")
	HookProjectMismatch = NewStatusError(http.StatusConflict, "directives span more than one tracker project")
)

// HookInvalidPayload reports a payload the normalizer rejected.
func HookInvalidPayload(err error) StatusError {
	return NewStatusError(http.StatusBadRequest, err.Error())
}

// TrackerFailure reports a failed call to the issue tracker.
func TrackerFailure(err error) StatusError {
	return NewStatusError(http.StatusBadGateway, "tracker request failed: "+err.Error())
}

type _HookTokenInvalid struct {
	StatusCode int    `json:"statusCode" example:"401"`
	Message    string `json:"message" example:"invalid hook token"`
}

type _HookInvalidPayload struct {
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message" example:"invalid hook payload: no commits in payload"`
}

type _HookUserNotFound struct {
	StatusCode int    `json:"statusCode" example:"422"`
	Message    string `json:"message" example:"commit author has no tracker account"`
}

type _HookProjectMismatch struct {
	StatusCode int    `json:"statusCode" example:"409"`
	Message    string `json:"message" example:"directives span more than one tracker project"`
}

type _TrackerFailure struct {
	StatusCode int    `json:"statusCode" example:"502"`
	Message    string `json:"message" example:"tracker request failed: update issue #5: connection reset"`
}
