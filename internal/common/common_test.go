package common

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, slog.LevelInfo, "json"))

	slog.Debug("hidden")
	LogInfo("imported", Fields{"rows": 3})

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"imported"`)
	assert.Contains(t, out, `"rows":3`)

	err := SetupLogger(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserError(t *testing.T) {
	inner := fmt.Errorf("open budget.db: %w", ErrStorageUnavailable)
	err := NewUserError("could not load budget", inner)

	assert.Equal(t, "could not load budget: open budget.db: storage unavailable", err.Error())
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.NotEmpty(t, Describe(err))
	assert.Empty(t, Describe(errors.New("other")))
	assert.Equal(t, "plain", (&UserError{UserMessage: "plain"}).Error())
}
