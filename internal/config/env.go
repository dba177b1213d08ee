package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultTokenEnv names the environment variable holding the API token.
const DefaultTokenEnv = "SKETCHGEN_TOKEN"

// fallbackTokenEnv is consulted when the configured variable is unset.
const fallbackTokenEnv = "HF_TOKEN"

// LoadEnv reads KEY=VALUE pairs from the given .env files into the process
// environment. Variables that are already set win. Missing files are not an
// error; with no arguments ".env" in the working directory is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ResolveToken returns the API token: a literal token from the config file
// first, then the variable named by token_env, then HF_TOKEN.
func (c *Config) ResolveToken() string {
	if c.Inference.Token != "" {
		return c.Inference.Token
	}
	name := c.Inference.TokenEnv
	if name == "" {
		name = DefaultTokenEnv
	}
	if v := os.Getenv(name); v != "" {
		return v
	}
	return os.Getenv(fallbackTokenEnv)
}
