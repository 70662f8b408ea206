package main

import (
	"fmt"

	pfhttp "github.com/fwojciec/pagefeat/http"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := pfhttp.NewServer()
	s.Addr = c.Addr
	s.Extractor = deps.Extractor
	s.Logger = deps.Logger
	s.RequestTimeout = c.Timeout
	s.MaxUploadBytes = c.MaxUploadBytes

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	deps.Logger.Info("serving", "addr", c.Addr, "url", s.URL())

	<-deps.Ctx.Done()
	deps.Logger.Info("shutting down")
	return s.Close()
}
