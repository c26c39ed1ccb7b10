package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue(t *testing.T) {
	t.Run("flag takes precedence", func(t *testing.T) {
		t.Setenv("TEST_CONFIG_KEY", "from-env")
		got := getConfigValue("from-flag", "TEST_CONFIG_KEY", "default")
		assert.Equal(t, "from-flag", got)
	})

	t.Run("env used when flag empty", func(t *testing.T) {
		t.Setenv("TEST_CONFIG_KEY", "from-env")
		got := getConfigValue("", "TEST_CONFIG_KEY", "default")
		assert.Equal(t, "from-env", got)
	})

	t.Run("default used when both empty", func(t *testing.T) {
		got := getConfigValue("", "TEST_CONFIG_MISSING", "default")
		assert.Equal(t, "default", got)
	})
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("TEST_INT_KEY", "25")
	assert.Equal(t, 25, getIntConfigValue("", "TEST_INT_KEY", 10))

	t.Setenv("TEST_INT_BAD", "not-a-number")
	assert.Equal(t, 10, getIntConfigValue("", "TEST_INT_BAD", 10))

	assert.Equal(t, 10, getIntConfigValue("", "TEST_INT_MISSING", 10))
}

func TestGetDurationConfigValue(t *testing.T) {
	t.Setenv("TEST_DUR_KEY", "30s")
	d, err := getDurationConfigValue("", "TEST_DUR_KEY", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	t.Setenv("TEST_DUR_BAD", "bogus")
	_, err = getDurationConfigValue("", "TEST_DUR_BAD", time.Minute)
	assert.Error(t, err)

	d, err = getDurationConfigValue("", "TEST_DUR_MISSING", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, splitAndTrim(" a@x.com , b@y.com "))
	assert.Equal(t, []string{"only"}, splitAndTrim("only,,"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nTEST_ENVFILE_A=hello\nTEST_ENVFILE_B=\"quoted\"\ninvalid line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("TEST_ENVFILE_A", "")
	os.Unsetenv("TEST_ENVFILE_A")
	t.Setenv("TEST_ENVFILE_B", "existing")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("TEST_ENVFILE_A"))
	// Existing environment variables are not overwritten.
	assert.Equal(t, "existing", os.Getenv("TEST_ENVFILE_B"))

	assert.Error(t, loadEnvFile(filepath.Join(dir, "missing.env")))
}
