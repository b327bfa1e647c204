package logging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	err := InitLogger()
	require.NoError(t, err)
	assert.NotNil(t, Logger)
}

func TestInitLogger_WithLogLevel(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Unsetenv("LOG_LEVEL")

	err := InitLogger()
	require.NoError(t, err)
	assert.NotNil(t, Logger)
}

func TestInitLogger_WithInvalidLogLevel(t *testing.T) {
	// Invalid level should still succeed with the default
	os.Setenv("LOG_LEVEL", "invalid")
	defer os.Unsetenv("LOG_LEVEL")

	err := InitLogger()
	require.NoError(t, err)
	assert.NotNil(t, Logger)
}
