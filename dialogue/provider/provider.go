package provider

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue"
)

// Provider names accepted by -provider.
const (
	NameGemini = "gemini"
	NameOpenAI = "openai"
)

// Config selects and configures one provider.
type Config struct {
	Name   string
	APIKey string
	Model  string
	Logger zerolog.Logger
}

// Client is a dialogue.Generator that also reports the model it targets.
type Client interface {
	dialogue.Generator
	Model() string
}

// New builds the Client named by cfg.Name.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Name {
	case NameGemini, "":
		return NewGemini(ctx, GeminiConfig{APIKey: cfg.APIKey, Model: cfg.Model})
	case NameOpenAI:
		return NewOpenAI(OpenAIConfig{APIKey: cfg.APIKey, Model: cfg.Model, Logger: cfg.Logger})
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", dialogue.ErrConfig, cfg.Name)
	}
}

// DefaultModel returns the model used for name when none is configured.
func DefaultModel(name string) string {
	if name == NameOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}
