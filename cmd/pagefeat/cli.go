package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/pagefeat"
)

// Supported providers.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Extractor pagefeat.Extractor

	// NewFetcher opens a fetcher for extract --url. render selects the
	// headless browser.
	NewFetcher func(render bool) (pagefeat.Fetcher, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Provider string `enum:"ollama,gemini" default:"ollama" env:"PAGEFEAT_PROVIDER" help:"LLM provider (ollama, gemini)"`
	Model    string `env:"PAGEFEAT_MODEL" help:"Model name (provider default when empty)"`
	BaseURL  string `name:"base-url" env:"PAGEFEAT_BASE_URL" help:"Override the provider API base URL"`
	Verbose  bool   `short:"v" help:"Enable debug logging and prompt token counts"`

	Serve   ServeCmd   `cmd:"" help:"Serve the extraction endpoint over HTTP"`
	Extract ExtractCmd `cmd:"" help:"Extract features from a file, standard input or a URL"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr           string        `default:":8000" env:"PAGEFEAT_ADDR" help:"Listen address"`
	Timeout        time.Duration `default:"2m" help:"Per-request extraction timeout"`
	MaxUploadBytes int64         `name:"max-upload-bytes" default:"10485760" help:"Largest accepted upload in bytes"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Paths       []string `arg:"" optional:"" name:"path" help:"HTML files to read, or - for standard input"`
	URL         string   `name:"url" help:"Fetch the document from this URL instead of a file"`
	Render      bool     `help:"Render --url in headless Chrome before extracting"`
	JSON        bool     `name:"json" help:"Print the result as JSON"`
	Concurrency int      `short:"c" default:"4" help:"Documents extracted at once"`
}
