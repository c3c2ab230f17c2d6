package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue"
	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/config"
	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/provider"
)

const replyJSON = `{"npcResponse":"Well met!","otherResponse":"Hello.","npcFeelings":"Cheerful","otherFeelings":"Curious","actionDescription":"The NPC waves."}`

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("npc-dialogue", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-in", "npc.json",
		"-out", "reply.json",
		"-provider", "openai",
		"-api-key", "k",
		"-send-params",
		"-log-level", "debug",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.InputPath != "npc.json" || cfg.OutPath != "reply.json" {
		t.Fatalf("InputPath=%q OutPath=%q", cfg.InputPath, cfg.OutPath)
	}
	if cfg.Provider != "openai" {
		t.Fatalf("Provider=%q", cfg.Provider)
	}
	if cfg.Model != "gpt-5-mini" {
		t.Fatalf("Model=%q", cfg.Model)
	}
	if cfg.APIKey != "k" || !cfg.SendParams || cfg.LogLevel != "debug" {
		t.Fatalf("APIKey=%q SendParams=%v LogLevel=%q", cfg.APIKey, cfg.SendParams, cfg.LogLevel)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("npc-dialogue", flag.ContinueOnError)
	cfg, err := parseFlags(fs, nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.InputPath != "-" || cfg.OutPath != "" {
		t.Fatalf("InputPath=%q OutPath=%q", cfg.InputPath, cfg.OutPath)
	}
	if cfg.Provider != "gemini" || cfg.Model != "gemini-2.5-flash" {
		t.Fatalf("Provider=%q Model=%q", cfg.Provider, cfg.Model)
	}
	if cfg.SendParams {
		t.Fatalf("SendParams should default to false")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := (Config{}).Validate(); err == nil {
		t.Fatalf("expected error")
	}
	if err := (Config{InputPath: "-", Provider: "claude", Model: "m"}).Validate(); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if err := (Config{InputPath: "-", Provider: "gemini", Model: "m"}).Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestReadInput(t *testing.T) {
	t.Parallel()

	b, err := readInput("-", strings.NewReader(`{"prompt":"hi"}`))
	if err != nil {
		t.Fatalf("readInput stdin: %v", err)
	}
	if string(b) != `{"prompt":"hi"}` {
		t.Fatalf("stdin=%q", b)
	}

	dir := t.TempDir()
	p := filepath.Join(dir, "npc.json")
	if err := os.WriteFile(p, []byte(`{"prompt":"file"}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err = readInput(p, nil)
	if err != nil {
		t.Fatalf("readInput file: %v", err)
	}
	if string(b) != `{"prompt":"file"}` {
		t.Fatalf("file=%q", b)
	}

	if _, err := readInput(filepath.Join(dir, "missing.json"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRun_PrintsReply(t *testing.T) {
	t.Parallel()

	var gotReq dialogue.Request
	gen := dialogue.GeneratorFunc(func(_ context.Context, req dialogue.Request) (string, error) {
		gotReq = req
		return replyJSON, nil
	})

	var out bytes.Buffer
	cfg := Config{InputPath: "-", Provider: "gemini", Model: "m"}
	if err := run(context.Background(), cfg, gen, []byte(`{"prompt":"Greet me"}`), &out, zerolog.Nop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotReq.Prompt != "Greet me" {
		t.Fatalf("Prompt=%q", gotReq.Prompt)
	}
	if gotReq.Params != nil {
		t.Fatalf("Params should not be sent by default")
	}
	if out.String() != replyJSON+"\n" {
		t.Fatalf("stdout=%q", out.String())
	}
}

func TestRun_WritesFile(t *testing.T) {
	t.Parallel()

	gen := dialogue.GeneratorFunc(func(context.Context, dialogue.Request) (string, error) {
		return replyJSON, nil
	})
	path := filepath.Join(t.TempDir(), "reply.json")

	var out bytes.Buffer
	cfg := Config{InputPath: "-", OutPath: path, Provider: "gemini", Model: "m"}
	if err := run(context.Background(), cfg, gen, []byte(`{}`), &out, zerolog.Nop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "response_written=") {
		t.Fatalf("stdout=%q", out.String())
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["npcResponse"] != "Well met!" {
		t.Fatalf("npcResponse=%q", m["npcResponse"])
	}
}

func TestRun_MalformedInputSkipsGenerator(t *testing.T) {
	t.Parallel()

	called := false
	gen := dialogue.GeneratorFunc(func(context.Context, dialogue.Request) (string, error) {
		called = true
		return replyJSON, nil
	})

	var out bytes.Buffer
	err := run(context.Background(), Config{}, gen, []byte(`{"prompt":`), &out, zerolog.Nop())
	if !errors.Is(err, dialogue.ErrInputParse) {
		t.Fatalf("err=%v", err)
	}
	if called {
		t.Fatalf("generator should not be called")
	}
	if out.Len() != 0 {
		t.Fatalf("stdout should be empty, got %q", out.String())
	}
}

func TestExecute_MissingKeySkipsClient(t *testing.T) {
	t.Parallel()

	factoryCalled := false
	generated := false
	newClient := func(context.Context, provider.Config) (dialogue.Generator, error) {
		factoryCalled = true
		return dialogue.GeneratorFunc(func(context.Context, dialogue.Request) (string, error) {
			generated = true
			return replyJSON, nil
		}), nil
	}

	for _, name := range []string{"gemini", "openai"} {
		var out bytes.Buffer
		cfg := Config{InputPath: "-", Provider: name, Model: "m"}
		err := execute(context.Background(), cfg, config.Env{}, strings.NewReader(`{"prompt":"hi"}`), &out, zerolog.Nop(), newClient)
		if !errors.Is(err, dialogue.ErrConfig) {
			t.Fatalf("%s: err=%v", name, err)
		}
		if exitCode(err) != 2 {
			t.Fatalf("%s: exit=%d", name, exitCode(err))
		}
		if out.Len() != 0 {
			t.Fatalf("%s: stdout=%q", name, out.String())
		}
	}
	if factoryCalled || generated {
		t.Fatalf("client built=%v generate called=%v", factoryCalled, generated)
	}
}

func TestExecute_UsesResolvedKey(t *testing.T) {
	t.Parallel()

	var got provider.Config
	newClient := func(_ context.Context, pc provider.Config) (dialogue.Generator, error) {
		got = pc
		return dialogue.GeneratorFunc(func(context.Context, dialogue.Request) (string, error) {
			return replyJSON, nil
		}), nil
	}

	var out bytes.Buffer
	cfg := Config{InputPath: "-", Provider: "openai", Model: "gpt-5-mini"}
	env := config.Env{OpenAIAPIKey: "sk-env", GeminiAPIKey: "g-env"}
	if err := execute(context.Background(), cfg, env, strings.NewReader(`{}`), &out, zerolog.Nop(), newClient); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.Name != "openai" || got.APIKey != "sk-env" || got.Model != "gpt-5-mini" {
		t.Fatalf("provider config=%+v", got)
	}
	if out.String() != replyJSON+"\n" {
		t.Fatalf("stdout=%q", out.String())
	}
}

func TestExecute_ClientErrorIsRunError(t *testing.T) {
	t.Parallel()

	newClient := func(context.Context, provider.Config) (dialogue.Generator, error) {
		return nil, errors.New("dial failed")
	}
	cfg := Config{InputPath: "-", Provider: "gemini", Model: "m", APIKey: "k"}
	err := execute(context.Background(), cfg, config.Env{}, strings.NewReader(`{}`), io.Discard, zerolog.Nop(), newClient)
	if err == nil || !strings.Contains(err.Error(), "create gemini client") {
		t.Fatalf("err=%v", err)
	}
	if exitCode(err) != 1 {
		t.Fatalf("exit=%d", exitCode(err))
	}
}

func TestExecute_TemplateNeedsNoKey(t *testing.T) {
	t.Parallel()

	newClient := func(context.Context, provider.Config) (dialogue.Generator, error) {
		t.Fatalf("client should not be built for -template")
		return nil, nil
	}

	var out bytes.Buffer
	cfg := Config{InputPath: "-", Provider: "gemini", Model: "m", Template: true}
	if err := execute(context.Background(), cfg, config.Env{}, nil, &out, zerolog.Nop(), newClient); err != nil {
		t.Fatalf("execute: %v", err)
	}

	in, err := dialogue.NormalizeInput(out.Bytes())
	if err != nil {
		t.Fatalf("template is not valid input: %v", err)
	}
	if in.Prompt.Text == "" || in.NPC.CurrentEmotion.Text() != "Trust" {
		t.Fatalf("prompt=%q emotion=%q", in.Prompt.Text, in.NPC.CurrentEmotion.Text())
	}
}

func TestInitTracing_Disabled(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "false")

	tp := initTracing(context.Background(), zerolog.Nop())
	if tp.IsEnabled() {
		t.Fatalf("tracing should be disabled")
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
