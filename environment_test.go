package campus_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/myschool/campus"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentValid(t *testing.T) {
	for _, tc := range []struct {
		input campus.Environment
		valid bool
	}{
		{campus.Development, true},
		{campus.Production, true},
		{campus.Staging, true},
		{campus.Testing, true},
		{"", false},
		{"development", false},
	} {
		t.Run(tc.input.String(), func(t *testing.T) {
			err := tc.input.Valid()
			if tc.valid {
				require.Nil(t, err)
				return
			}

			require.ErrorIs(t, err, campus.ErrNotValid)
		})
	}
}

func TestEnvVarOr(t *testing.T) {
	// Arrange
	t.Setenv("CAMPUS_TEST_BOOL", "TRUE")
	t.Setenv("CAMPUS_TEST_DURATION", "3s")
	t.Setenv("CAMPUS_TEST_ENV", "staging")
	t.Setenv("CAMPUS_TEST_INT", "3000")
	t.Setenv("CAMPUS_TEST_BAD_INT", "three")
	t.Setenv("CAMPUS_TEST_LEVEL", "debug")
	t.Setenv("CAMPUS_TEST_STRING", "myschool")

	// Act + Assert
	require.True(t, campus.EnvVarOrBool("CAMPUS_TEST_BOOL", false))
	require.True(t, campus.EnvVarOrBool("CAMPUS_TEST_UNSET", true))
	require.Equal(t, 3*time.Second, campus.EnvVarOrDuration("CAMPUS_TEST_DURATION", time.Second))
	require.Equal(t, time.Second, campus.EnvVarOrDuration("CAMPUS_TEST_UNSET", time.Second))
	require.Equal(t, campus.Staging, campus.EnvVarOrEnv("CAMPUS_TEST_ENV", campus.Development))
	require.Equal(t, campus.Development, campus.EnvVarOrEnv("CAMPUS_TEST_STRING", campus.Development))
	require.Equal(t, 3000, campus.EnvVarOrInt("CAMPUS_TEST_INT", 1))
	require.Equal(t, 1, campus.EnvVarOrInt("CAMPUS_TEST_BAD_INT", 1))
	require.Equal(t, int64(3000), campus.EnvVarOrInt64("CAMPUS_TEST_INT", 1))
	require.Equal(t, slog.LevelDebug, campus.EnvVarOrLogLevel("CAMPUS_TEST_LEVEL", slog.LevelInfo))
	require.Equal(t, slog.LevelWarn, campus.EnvVarOrLogLevel("CAMPUS_TEST_UNSET", slog.LevelWarn))
	require.Equal(t, "myschool", campus.EnvVarOrString("CAMPUS_TEST_STRING", "x"))
	require.Equal(t, "x", campus.EnvVarOrString("CAMPUS_TEST_UNSET", "x"))
}
