package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue"
	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/config"
	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/fileutils"
	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/observability"
	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/provider"
)

const serviceName = "npc-scene"

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	env, err := loadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	level := cfg.LogLevel
	if level == "" {
		level = env.LogLevel
	}
	runID := uuid.NewString()
	logger := config.NewLogger(os.Stderr, level).With().Str("run_id", runID).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = observability.WithSessionID(ctx, runID)
	tp := initTracing(ctx, logger)

	newClient := func(ctx context.Context, pc provider.Config) (dialogue.Generator, error) {
		client, err := provider.New(ctx, pc)
		if err != nil {
			return nil, err
		}
		return observability.TraceGenerator(client, tp.Tracer(serviceName), pc.Name, client.Model()), nil
	}

	start := time.Now()
	err = execute(ctx, cfg, env, os.Stdin, os.Stdout, logger, newClient)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if serr := tp.Shutdown(shutdownCtx); serr != nil {
		logger.Warn().Err(serr).Msg("tracing shutdown")
	}
	cancel()
	stop()

	if err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("scene generation failed")
		os.Exit(exitCode(err))
	}
	logger.Debug().Dur("elapsed", time.Since(start)).Msg("done")
}

// clientFactory builds the generator for a run once the API key is known.
type clientFactory func(ctx context.Context, pc provider.Config) (dialogue.Generator, error)

// execute resolves the API key, reads the input and writes one scene to cfg.OutPath. The key is
// checked first so a misconfigured run never builds a client or touches the network.
func execute(ctx context.Context, cfg Config, env config.Env, stdin io.Reader, stdout io.Writer, logger zerolog.Logger, newClient clientFactory) error {
	if cfg.Template {
		return printTemplate(stdout)
	}

	apiKey, err := env.ResolveAPIKey(cfg.Provider, cfg.APIKey)
	if err != nil {
		return err
	}
	input, err := readInput(cfg.InputPath, stdin)
	if err != nil {
		return err
	}
	gen, err := newClient(ctx, provider.Config{
		Name:   cfg.Provider,
		APIKey: apiKey,
		Model:  cfg.Model,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}
	n, err := run(ctx, cfg, gen, input, logger)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "response_written=%s fields=%d model=%s\n", cfg.OutPath, n, cfg.Model)
	return err
}

func exitCode(err error) int {
	if errors.Is(err, dialogue.ErrConfig) {
		return 2
	}
	return 1
}

func loadEnv() (config.Env, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Env{}, err
	}
	return config.LoadEnv()
}

func printTemplate(w io.Writer) error {
	b, err := fileutils.MarshalJSON(dialogue.SampleDocument(), "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// run generates one scene and replaces cfg.OutPath with it. It returns the number of
// fields written.
func run(ctx context.Context, cfg Config, gen dialogue.Generator, input []byte, logger zerolog.Logger) (int, error) {
	p := dialogue.Pipeline{
		Generator:            gen,
		Fields:               dialogue.SceneFields,
		SendGenerationParams: cfg.SendParams,
		Logger:               logger,
	}
	resp, err := p.Run(ctx, input)
	if err != nil {
		return 0, err
	}
	if missing := resp.Missing(dialogue.SceneFields); len(missing) > 0 {
		logger.Warn().Strs("missing", missing).Msg("scene is missing fields")
	}
	if err := dialogue.WriteResponseFile(cfg.OutPath, resp); err != nil {
		return 0, err
	}
	return resp.Len(), nil
}

// initTracing falls back to a no-op provider so a tracing misconfiguration never fails a run.
func initTracing(ctx context.Context, logger zerolog.Logger) *observability.TracerProvider {
	tcfg, err := observability.LoadConfigFromEnv(serviceName)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
		return &observability.TracerProvider{}
	}
	tp, err := observability.InitTracing(ctx, tcfg)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
		return &observability.TracerProvider{}
	}
	return tp
}

// readInput reads the whole document from path, or from stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Path to the NPC input JSON file, or - to read stdin")
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "File to write the scene JSON to (overwritten on every run)")
	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "Model provider: gemini or openai")
	fs.StringVar(&cfg.Model, "model", "", "Model to use (default depends on -provider)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "API key (overrides GEMINI_API_KEY / OPENAI_API_KEY)")
	fs.BoolVar(&cfg.SendParams, "send-params", false, "Send max_tokens and temperature from the input to the model (gpt-5 models reject temperature)")
	fs.BoolVar(&cfg.Template, "template", false, "Print a sample input document and exit")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default LOG_LEVEL or info)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags] < npc.json\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/npc-scene -template > npc.json")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/npc-scene < npc.json")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/npc-scene -in npc.json -provider openai -out scenes/tavern.json")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Model == "" {
		cfg.Model = provider.DefaultModel(cfg.Provider)
	}
	return cfg, nil
}
