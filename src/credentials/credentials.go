package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"stock-insight/src/helpers"
	"stock-insight/src/interfaces"
	"stock-insight/src/models"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIKeyFile = "api_key_g.txt"
	DefaultAPIKeyEnv  = "ALPHAVANTAGE_API_KEY"
)

// -----------------------------------------------------------------------------

// FileProvider reads the key from a file on every call, so rotating the file
// takes effect without a restart.
type FileProvider struct {
	Path string
}

func (p FileProvider) APIKey(_ context.Context) (string, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return "", helpers.NewCredentialMissingError(fmt.Sprintf("read api key file %q", p.Path), err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", helpers.NewCredentialMissingError(fmt.Sprintf("api key file %q is empty", p.Path), nil)
	}
	return key, nil
}

// -----------------------------------------------------------------------------

// EnvProvider reads the key from an environment variable.
type EnvProvider struct {
	Var string
}

func (p EnvProvider) APIKey(_ context.Context) (string, error) {
	key := strings.TrimSpace(os.Getenv(p.Var))
	if key == "" {
		return "", helpers.NewCredentialMissingError(fmt.Sprintf("environment variable %s is not set", p.Var), nil)
	}
	return key, nil
}

// -----------------------------------------------------------------------------

// StaticProvider returns a fixed key.
type StaticProvider string

func (p StaticProvider) APIKey(_ context.Context) (string, error) {
	if strings.TrimSpace(string(p)) == "" {
		return "", helpers.NewCredentialMissingError("api key is empty", nil)
	}
	return string(p), nil
}

// -----------------------------------------------------------------------------

// ChainProvider returns the first key found. Only credential-missing errors
// fall through to the next provider.
type ChainProvider []interfaces.ICredentialProvider

func (c ChainProvider) APIKey(ctx context.Context) (string, error) {
	var errs []error
	for _, p := range c {
		key, err := p.APIKey(ctx)
		if err == nil {
			return key, nil
		}
		var missing *helpers.CredentialMissingError
		if !errors.As(err, &missing) {
			return "", err
		}
		errs = append(errs, err)
	}
	return "", helpers.NewCredentialMissingError("no api key source configured", errors.Join(errs...))
}

// -----------------------------------------------------------------------------

// NewProvider builds the provider selected by the credentials config section.
// The optional dotenv file is loaded first; existing environment values win.
func NewProvider(cfg models.MCredentialsConfig) (interfaces.ICredentialProvider, error) {
	if cfg.DotEnvFile != "" {
		if err := godotenv.Load(cfg.DotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load dotenv %q: %w", cfg.DotEnvFile, err)
		}
	}

	file := FileProvider{Path: cfg.APIKeyFile}
	if file.Path == "" {
		file.Path = DefaultAPIKeyFile
	}
	env := EnvProvider{Var: cfg.APIKeyEnv}
	if env.Var == "" {
		env.Var = DefaultAPIKeyEnv
	}

	switch cfg.Source {
	case "", "file":
		return file, nil
	case "env":
		return env, nil
	case "chain":
		return ChainProvider{env, file}, nil
	default:
		return nil, fmt.Errorf("unknown credentials source %q", cfg.Source)
	}
}
