package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagefeat"
	"github.com/fwojciec/pagefeat/extract"
	"github.com/fwojciec/pagefeat/gemini"
	pfhttp "github.com/fwojciec/pagefeat/http"
	"github.com/fwojciec/pagefeat/jsonschema"
	pfopenai "github.com/fwojciec/pagefeat/openai"
	"github.com/fwojciec/pagefeat/rod"
	pfslog "github.com/fwojciec/pagefeat/slog"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; variables already set in the process win.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv looks up secrets. Defaults to os.Getenv.
	Getenv func(string) string

	// Services for end-to-end testing. When set they replace the provider
	// client and the page fetcher built from flags.
	Generator pagefeat.Generator
	Fetcher   pagefeat.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// Dependencies are filled in below and bound into every command's Run
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagefeat"),
		kong.Description("Extract user actions and page information from HTML with an LLM."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Show help without building a provider client
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagefeat --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse before wiring so flags decide the provider and log level
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	generator, err := m.newGenerator(ctx, cli, stderr)
	if err != nil {
		return err
	}

	// The tokenizer downloads its vocabulary, so only count when asked
	var counter pagefeat.TokenCounter
	if cli.Verbose {
		if tc, err := gemini.NewTokenCounter(""); err != nil {
			deps.Logger.Warn("token counting disabled", "err", err)
		} else {
			counter = tc
		}
	}

	validator, err := jsonschema.NewFeaturesValidator()
	if err != nil {
		return fmt.Errorf("failed to compile features schema: %w", err)
	}

	// Extraction pipeline shared by serve and extract
	deps.Extractor = pfslog.NewLoggingExtractor(&extract.Service{
		Generator: pfslog.NewLoggingGenerator(generator, counter, deps.Logger),
		Validator: validator,
	}, deps.Logger)

	// Fetchers are built lazily; only extract --url needs one
	deps.NewFetcher = func(render bool) (pagefeat.Fetcher, error) {
		if m.Fetcher != nil {
			return pfslog.NewLoggingFetcher(m.Fetcher, deps.Logger), nil
		}
		if !render {
			return pfslog.NewLoggingFetcher(pfhttp.NewFetcher(), deps.Logger), nil
		}
		fetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --render")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return pfslog.NewLoggingFetcher(fetcher, deps.Logger), nil
	}

	return kongCtx.Run(deps)
}

// newGenerator builds the client for the selected provider.
func (m *Main) newGenerator(ctx context.Context, cli *CLI, stderr io.Writer) (pagefeat.Generator, error) {
	if m.Generator != nil {
		return m.Generator, nil
	}

	switch cli.Provider {
	case ProviderGemini:
		apiKey := m.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "Hint: Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}

		config := &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if cli.BaseURL != "" {
			config.HTTPOptions.BaseURL = cli.BaseURL
		}
		client, err := genai.NewClient(ctx, config)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewGenerator(client, cli.Model), nil

	default:
		apiKey := m.Getenv("OLLAMA_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "Hint: Create an API key at https://ollama.com/settings/keys")
			return nil, fmt.Errorf("OLLAMA_API_KEY not set")
		}
		return pfopenai.NewGenerator(pfopenai.Config{
			APIKey:  apiKey,
			BaseURL: cli.BaseURL,
			Model:   cli.Model,
		}), nil
	}
}
