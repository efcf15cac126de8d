package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DotEnvFile is read beside each config layer for site variables.
const DotEnvFile = ".env"

// VarEnvPrefix marks environment variables that override site variables,
// e.g. SSG_VAR_SITE_NAME overrides "site_name".
const VarEnvPrefix = "SSG_VAR_"

// ApplyEnv overrides cfg.Variables with SSG_VAR_* environment variables.
// Keys are lower-cased. The .env files beside each config layer are
// already applied by LoadLayered.
func ApplyEnv(cfg *Config) {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, VarEnvPrefix) {
			continue
		}
		if key := strings.ToLower(strings.TrimPrefix(name, VarEnvPrefix)); key != "" {
			vars[key] = value
		}
	}
	cfg.Variables = mergeMaps(cfg.Variables, vars)
}

// LoadDotEnv parses a .env file into a map. A missing file yields nil.
func LoadDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vars, nil
}
