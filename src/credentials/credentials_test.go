package credentials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stock-insight/src/helpers"
	"stock-insight/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileProviderTrimsKey(t *testing.T) {
	path := writeFile(t, "key.txt", "  ABC123\n")

	key, err := FileProvider{Path: path}.APIKey(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ABC123", key)
}

func TestFileProviderMissingFileIsCredentialMissing(t *testing.T) {
	_, err := FileProvider{Path: filepath.Join(t.TempDir(), "absent.txt")}.APIKey(context.Background())

	assert.Equal(t, helpers.KindCredentialMissing, helpers.KindOf(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileProviderEmptyFile(t *testing.T) {
	path := writeFile(t, "key.txt", "\n\n")

	_, err := FileProvider{Path: path}.APIKey(context.Background())

	assert.Equal(t, helpers.KindCredentialMissing, helpers.KindOf(err))
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("TEST_AV_KEY", "from-env")

	key, err := EnvProvider{Var: "TEST_AV_KEY"}.APIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)

	_, err = EnvProvider{Var: "TEST_AV_KEY_UNSET"}.APIKey(context.Background())
	assert.Equal(t, helpers.KindCredentialMissing, helpers.KindOf(err))
}

func TestChainProviderFallsThrough(t *testing.T) {
	path := writeFile(t, "key.txt", "file-key")
	chain := ChainProvider{EnvProvider{Var: "TEST_AV_KEY_UNSET"}, FileProvider{Path: path}}

	key, err := chain.APIKey(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "file-key", key)
}

func TestChainProviderAllMissing(t *testing.T) {
	chain := ChainProvider{StaticProvider(""), EnvProvider{Var: "TEST_AV_KEY_UNSET"}}

	_, err := chain.APIKey(context.Background())

	assert.Equal(t, helpers.KindCredentialMissing, helpers.KindOf(err))
}

func TestNewProviderSelectsSource(t *testing.T) {
	p, err := NewProvider(models.MCredentialsConfig{})
	require.NoError(t, err)
	assert.Equal(t, FileProvider{Path: DefaultAPIKeyFile}, p)

	p, err = NewProvider(models.MCredentialsConfig{Source: "env"})
	require.NoError(t, err)
	assert.Equal(t, EnvProvider{Var: DefaultAPIKeyEnv}, p)

	_, err = NewProvider(models.MCredentialsConfig{Source: "vault"})
	assert.Error(t, err)
}

func TestNewProviderLoadsDotEnv(t *testing.T) {
	t.Setenv("TEST_DOTENV_KEY", "")
	os.Unsetenv("TEST_DOTENV_KEY")
	path := writeFile(t, ".env", "TEST_DOTENV_KEY=dotenv-key\n")

	p, err := NewProvider(models.MCredentialsConfig{Source: "env", APIKeyEnv: "TEST_DOTENV_KEY", DotEnvFile: path})
	require.NoError(t, err)

	key, err := p.APIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", key)
}

func TestNewProviderMissingDotEnvIsIgnored(t *testing.T) {
	_, err := NewProvider(models.MCredentialsConfig{DotEnvFile: filepath.Join(t.TempDir(), ".env")})
	assert.NoError(t, err)
}
