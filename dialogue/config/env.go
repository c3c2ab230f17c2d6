package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue"
	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/provider"
)

// Env holds settings read from the process environment (and an optional .env file).
type Env struct {
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadDotEnv loads the given .env files (default ./.env) into the environment without
// overriding variables that are already set. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: load %s: %v", dialogue.ErrConfig, p, err)
		}
	}
	return nil
}

// LoadEnv reads Env from the environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("%w: %v", dialogue.ErrConfig, err)
	}
	return env, nil
}

// APIKeyVar names the environment variable holding the key for a provider.
func APIKeyVar(providerName string) string {
	if providerName == provider.NameOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// ResolveAPIKey picks the -api-key flag value if set, otherwise the provider's variable.
// It fails with ErrConfig when neither is present, before any client is built.
func (e Env) ResolveAPIKey(providerName, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	key := e.GeminiAPIKey
	if providerName == provider.NameOpenAI {
		key = e.OpenAIAPIKey
	}
	if key == "" {
		return "", fmt.Errorf("%w: missing %s (or pass -api-key)", dialogue.ErrConfig, APIKeyVar(providerName))
	}
	return key, nil
}
