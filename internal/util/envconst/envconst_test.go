package envconst_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socketrpc/socketrpc/internal/util/envconst"
)

func setenv(t *testing.T, name, value string) func() {
	_, set := os.LookupEnv(name)
	require.False(t, set)
	require.NoError(t, os.Setenv(name, value))
	return func() { os.Unsetenv(name) }
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, int64(23), envconst.Int64("SOCKETRPC_ENVCONST_UNIT_TEST_UNSET", 23))
	assert.Equal(t, 5*time.Second, envconst.Duration("SOCKETRPC_ENVCONST_UNIT_TEST_UNSET", 5*time.Second))
	assert.True(t, envconst.Bool("SOCKETRPC_ENVCONST_UNIT_TEST_UNSET", true))
}

func TestValueIsCached(t *testing.T) {
	const name = "SOCKETRPC_ENVCONST_UNIT_TEST_INT"
	defer setenv(t, name, "42")()

	assert.Equal(t, 42, envconst.Int(name, 1))
	require.NoError(t, os.Setenv(name, "43"))
	assert.Equal(t, 42, envconst.Int(name, 1))
}

func TestMalformedValuePanics(t *testing.T) {
	const name = "SOCKETRPC_ENVCONST_UNIT_TEST_MALFORMED"
	defer setenv(t, name, "not-a-number")()

	assert.Panics(t, func() { envconst.Int64(name, 1) })
}
