package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrTypeDatabase, "connection failed"),
			want: "database: connection failed",
		},
		{
			name: "with cause",
			err:  Wrap(errors.New("dial tcp: refused"), ErrTypeDatabase, "connection failed"),
			want: "database: connection failed (caused by: dial tcp: refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(cause, ErrTypeLLM, "completion failed")

	assert.ErrorIs(t, err, cause)
}

func TestIsType(t *testing.T) {
	err := Newf(ErrTypeConfig, "invalid value for %s", "max_retries")

	assert.True(t, IsType(err, ErrTypeConfig))
	assert.False(t, IsType(err, ErrTypeDatabase))
	assert.False(t, IsType(errors.New("plain"), ErrTypeConfig))
}

func TestGetType(t *testing.T) {
	assert.Equal(t, ErrTypeValidation, GetType(New(ErrTypeValidation, "bad question")))
	assert.Equal(t, ErrTypeInternal, GetType(errors.New("plain")))
}

func TestNewAuthError(t *testing.T) {
	err := NewAuthError("groq", "GROQ_API_KEY")

	assert.True(t, IsType(err, ErrTypeAuth))
	assert.Contains(t, err.Error(), "groq")
	assert.Len(t, err.Suggestions, 2)
	assert.Contains(t, err.Suggestions[0], "GROQ_API_KEY")
}
