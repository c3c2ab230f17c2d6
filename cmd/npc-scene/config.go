package main

import (
	"errors"
	"fmt"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue"
	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/provider"
)

type Config struct {
	InputPath  string
	OutPath    string
	Provider   string
	Model      string
	APIKey     string
	SendParams bool
	LogLevel   string
	Template   bool
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("missing -in")
	}
	switch c.Provider {
	case provider.NameGemini, provider.NameOpenAI:
	default:
		return fmt.Errorf("unknown -provider %q (want gemini or openai)", c.Provider)
	}
	if c.OutPath == "" {
		return errors.New("missing -out")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		InputPath: "-",
		OutPath:   dialogue.ResponseFileName,
		Provider:  provider.NameGemini,
	}
}
