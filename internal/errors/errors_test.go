package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewStorageError("failed to write CSV", stderrors.New("disk full")),
			want: "[STORAGE] failed to write CSV: disk full",
		},
		{
			name: "without cause",
			err:  NewValidationError("price must be positive"),
			want: "[VALIDATION] price must be positive",
		},
		{
			name: "not found",
			err:  NewNotFoundError("raw dataset"),
			want: "[NOT_FOUND] raw dataset not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying failure")
	err := NewParsingError("bad CSV row", cause)

	assert.True(t, stderrors.Is(err, cause))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewConfigError("invalid paths", nil).
		WithContext("data_dir", "/nonexistent").
		WithContext("attempt", 1)

	require.NotNil(t, err.Context)
	assert.Equal(t, "/nonexistent", err.Context["data_dir"])
	assert.Equal(t, 1, err.Context["attempt"])
}
