package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", NotFound("Student", "S1"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("enroll: %w", NotFound("Course", "C1")), http.StatusNotFound},
		{"business", Business("course full"), http.StatusBadRequest},
		{"unavailable", Unavailable("catalog", errors.New("dial tcp")), http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Student not found with id: S1", Message(NotFound("Student", "S1")))
	assert.Equal(t, "already enrolled", Message(fmt.Errorf("enroll: %w", Business("already enrolled"))))
	assert.Equal(t, "Service unavailable: catalog unreachable: refused",
		Message(Unavailable("catalog unreachable", errors.New("refused"))))
	assert.Equal(t, "Server error: boom", Message(errors.New("boom")))
}

func TestUnavailableUnwraps(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("get course: %w", Unavailable("catalog", cause))

	assert.True(t, IsUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsNotFound(err))
}

func TestSentinelBusinessErrorsMatchByIdentity(t *testing.T) {
	full := Business("course full")
	wrapped := fmt.Errorf("enroll: %w", full)

	assert.ErrorIs(t, wrapped, full)
	assert.NotErrorIs(t, wrapped, Business("course full"))
}
