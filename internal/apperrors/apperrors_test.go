package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GRIBbI/telegram-assistant-bot/internal/apperrors"
)

func TestErrorCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		code string
	}{
		{"storage", apperrors.NewStorageError("insert failed", errors.New("disk full")), apperrors.CodeStorage},
		{"validation", apperrors.NewValidationError("bad time", nil), apperrors.CodeValidation},
		{"config", apperrors.NewConfigError("missing token", nil), apperrors.CodeConfig},
		{"missing context", apperrors.NewMissingContextError("no draft date"), apperrors.CodeMissingContext},
		{"assistant", apperrors.NewAssistantError("backend down", errors.New("503")), apperrors.CodeAssistant},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.code, apperrors.Code(tc.err))
			require.True(t, apperrors.Is(tc.err, tc.code))
			require.False(t, apperrors.Is(tc.err, "SOMETHING_ELSE"))
		})
	}
}

func TestCodeOfPlainError(t *testing.T) {
	t.Parallel()

	require.Equal(t, apperrors.CodeUnknown, apperrors.Code(errors.New("plain")))
	require.Equal(t, apperrors.CodeUnknown, apperrors.Code(nil))
}

func TestCodeSurvivesWrapping(t *testing.T) {
	t.Parallel()

	inner := apperrors.NewStorageError("insert failed", nil)
	wrapped := fmt.Errorf("creating task: %w", inner)

	require.Equal(t, apperrors.CodeStorage, apperrors.Code(wrapped))
	require.True(t, apperrors.Is(wrapped, apperrors.CodeStorage))
}

func TestUnwrapExposesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("unique constraint")
	err := apperrors.NewStorageError("insert failed", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "insert failed")
	require.Contains(t, err.Error(), "unique constraint")
}
