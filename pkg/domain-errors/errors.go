// Package dErrors defines the coded error taxonomy surfaced to API callers.
// Services build these from validation failures or by translating store
// sentinels; the HTTP layer maps codes to status lines via ToHTTPStatus.
package dErrors

import (
	"errors"
	"net/http"
)

// Code is a stable, machine-readable error identifier. Codes appear verbatim
// in JSON error responses, so renaming one is a breaking API change.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"

	// Nomination lifecycle codes.
	CodeWindowClosed        Code = "window_closed"
	CodeDuplicateNomination Code = "duplicate_nomination"
	CodeInvalidState        Code = "invalid_state"

	// Ballot casting codes.
	CodeVotingClosed         Code = "voting_closed"
	CodeAlreadyVoted         Code = "already_voted"
	CodeVoterIneligible      Code = "voter_ineligible"
	CodeCandidateNotApproved Code = "candidate_not_approved"
)

// Error carries a code plus a human-readable description, optionally wrapping
// an underlying cause.
type Error struct {
	Code        Code
	Description string
	cause       error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Code) + ": " + e.Description + ": " + e.cause.Error()
	}
	return string(e.Code) + ": " + e.Description
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with a caller-facing description.
func New(code Code, description string) *Error {
	return &Error{Code: code, Description: description}
}

// Wrap builds a coded error around an underlying cause.
func Wrap(code Code, description string, cause error) *Error {
	return &Error{Code: code, Description: description, cause: cause}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate from this package.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps an error to the HTTP status used when rendering it.
func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidState, CodeDuplicateNomination, CodeAlreadyVoted:
		return http.StatusConflict
	case CodeWindowClosed, CodeVotingClosed, CodeVoterIneligible, CodeCandidateNotApproved:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
