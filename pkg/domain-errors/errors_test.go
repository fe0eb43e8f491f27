package dErrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	err := New(CodeWindowClosed, "nomination window is closed")
	assert.True(t, HasCode(err, CodeWindowClosed))
	assert.False(t, HasCode(err, CodeVotingClosed))

	t.Run("sees through fmt wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("submit: %w", err)
		assert.True(t, HasCode(wrapped, CodeWindowClosed))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeInternal, "failed to record vote", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:           http.StatusBadRequest,
		CodeUnauthorized:         http.StatusUnauthorized,
		CodeForbidden:            http.StatusForbidden,
		CodeNotFound:             http.StatusNotFound,
		CodeConflict:             http.StatusConflict,
		CodeDuplicateNomination:  http.StatusConflict,
		CodeInvalidState:         http.StatusConflict,
		CodeAlreadyVoted:         http.StatusConflict,
		CodeWindowClosed:         http.StatusUnprocessableEntity,
		CodeVotingClosed:         http.StatusUnprocessableEntity,
		CodeVoterIneligible:      http.StatusUnprocessableEntity,
		CodeCandidateNotApproved: http.StatusUnprocessableEntity,
		CodeInternal:             http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(New(code, "x")), "code %s", code)
	}
}
