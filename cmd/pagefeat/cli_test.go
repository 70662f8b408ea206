package main_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/pagefeat/cmd/pagefeat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(t *testing.T, cli *main.CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli,
		kong.Writers(&bytes.Buffer{}, &bytes.Buffer{}),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)
	return parser
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	parser, err := kong.New(cli,
		kong.Writers(stdout, &bytes.Buffer{}),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range []string{"serve", "extract"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_ServeDefaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	_, err := newParser(t, cli).Parse([]string{"serve"})

	require.NoError(t, err)
	assert.Equal(t, main.ProviderOllama, cli.Provider)
	assert.Equal(t, ":8000", cli.Serve.Addr)
	assert.Equal(t, 2*time.Minute, cli.Serve.Timeout)
	assert.Equal(t, int64(10<<20), cli.Serve.MaxUploadBytes)
}

func TestCLI_EnvironmentConfiguresProvider(t *testing.T) {
	t.Setenv("PAGEFEAT_PROVIDER", "gemini")
	t.Setenv("PAGEFEAT_MODEL", "gemini-2.5-pro")

	cli := &main.CLI{}
	_, err := newParser(t, cli).Parse([]string{"extract", "page.html"})

	require.NoError(t, err)
	assert.Equal(t, main.ProviderGemini, cli.Provider)
	assert.Equal(t, "gemini-2.5-pro", cli.Model)
	assert.Equal(t, []string{"page.html"}, cli.Extract.Paths)
}

func TestCLI_ExtractFlags(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	_, err := newParser(t, cli).Parse([]string{"extract", "--url", "https://example.com", "--render", "--json"})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cli.Extract.URL)
	assert.True(t, cli.Extract.Render)
	assert.True(t, cli.Extract.JSON)
	assert.Empty(t, cli.Extract.Paths)
	assert.Equal(t, 4, cli.Extract.Concurrency)
}
