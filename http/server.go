// Package http exposes feature extraction over HTTP and provides a plain
// HTTP implementation of pagefeat.Fetcher.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/pagefeat"
)

// Server defaults.
const (
	DefaultAddr           = ":8000"
	DefaultRequestTimeout = 2 * time.Minute
	DefaultMaxUploadBytes  = 10 << 20
	DefaultShutdownTimeout = 5 * time.Second
)

// Response headers.
const (
	FoundHeader     = "X-Features-Found"
	RequestIDHeader = "X-Request-ID"
)

// FileField is the multipart form field carrying the uploaded document.
const FileField = "file"

// Server serves feature extraction over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *http.ServeMux

	// Parent of every request context; cancelled when Close gives up
	// waiting.
	ctx    context.Context
	cancel context.CancelFunc

	// Bind address, e.g. ":8000". Must be set before Open.
	Addr string

	Extractor pagefeat.Extractor
	Logger    *slog.Logger

	// RequestTimeout bounds one extraction. Zero disables it.
	RequestTimeout time.Duration

	// MaxUploadBytes caps the request body.
	MaxUploadBytes int64

	// ShutdownTimeout is how long Close waits for in-flight requests
	// before cancelling them.
	ShutdownTimeout time.Duration
}

// NewServer returns a Server with default settings. Extractor must be set
// before the server handles requests.
func NewServer() *Server {
	s := &Server{
		router:         http.NewServeMux(),
		Addr:           DefaultAddr,
		Logger:         slog.Default(),
		RequestTimeout:  DefaultRequestTimeout,
		MaxUploadBytes:  DefaultMaxUploadBytes,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.router.HandleFunc("POST /{$}", s.handleExtract)
	s.router.HandleFunc("POST /extract", s.handleExtract)
	s.router.HandleFunc("GET /healthz", s.handleHealth)

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.ctx },
	}
	return s
}

// Handler returns the server's routes wrapped in its middleware.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withLogging(withCORS(s.router)))
}

// Open starts listening on Addr and serves in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts down the server. In-flight requests get
// ShutdownTimeout to finish; after that their contexts are cancelled and the
// remaining connections are closed. Running out of time is not an error.
func (s *Server) Close() error {
	defer s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		s.Logger.Warn("cancelling in-flight requests", "timeout", s.ShutdownTimeout)
		s.cancel()
		return s.server.Close()
	}
	return err
}

// Port returns the TCP port the server is listening on, or zero before Open.
func (s *Server) Port() int {
	if s.ln == nil {
		return 0
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.Port())
}

// notFoundResponse is the body sent when no features could be produced.
type notFoundResponse struct {
	Found  bool   `json:"found"`
	Reason string `json:"reason"`
}

// ErrorResponse is the body sent for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.RequestTimeout)
		defer cancel()
	}

	data, err := s.readDocument(w, r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: fmt.Sprintf("document exceeds %d bytes", maxErr.Limit),
			})
			return
		}
		s.Error(w, r, err)
		return
	}

	document, err := pagefeat.DecodeDocument(data)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	outcome, err := s.Extractor.Extract(ctx, document)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	switch o := outcome.(type) {
	case pagefeat.Found:
		w.Header().Set(FoundHeader, "true")
		writeJSON(w, http.StatusOK, o.Features)
	case pagefeat.NotFound:
		w.Header().Set(FoundHeader, "false")
		writeJSON(w, http.StatusOK, notFoundResponse{Found: false, Reason: o.Reason})
	default:
		s.Error(w, r, fmt.Errorf("unexpected outcome %T", outcome))
	}
}

// readDocument returns the uploaded document: the "file" part of a
// multipart form, or the raw body for any other content type.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxUploadBytes))
	if err != nil {
		return nil, err
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return body, nil
	}

	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, pagefeat.Errorf(pagefeat.EINVALID, "missing %q form field", FileField)
		} else if err != nil {
			return nil, pagefeat.Errorf(pagefeat.EINVALID, "malformed multipart body: %v", err)
		}
		if part.FormName() != FileField {
			continue
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return nil, pagefeat.Errorf(pagefeat.EINVALID, "malformed multipart body: %v", err)
		}
		return data, nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Error writes err as a JSON error response with the status matching its
// application error code. Internal errors are logged.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := pagefeat.ErrorCode(err), pagefeat.ErrorMessage(err)
	if code == pagefeat.EINTERNAL {
		s.Logger.Error("http error",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", w.Header().Get(RequestIDHeader),
			"err", err,
		)
	}
	writeJSON(w, ErrorStatusCode(code), ErrorResponse{Error: message})
}

var codes = map[string]int{
	pagefeat.EINVALID:     http.StatusBadRequest,
	pagefeat.EUNAVAILABLE: http.StatusBadGateway,
	pagefeat.ETIMEOUT:     http.StatusGatewayTimeout,
	pagefeat.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
