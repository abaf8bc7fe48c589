// CLAUDE:SUMMARY Read-only viewer service: resolves share codes to published snapshot bodies over chi routes.
// Package viewer serves published broadcasts. A broadcast is addressed by
// its share code only; the viewer never touches the live schedule and has
// no write path.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/go-chi/chi/v5"

	"github.com/showgrid/broadcast/identity"
	"github.com/showgrid/broadcast/publish"
)

// CodeIndex resolves a share code to its broadcast record.
type CodeIndex interface {
	// FindByCode returns nil, nil when no broadcast carries the code.
	FindByCode(ctx context.Context, code string) (*publish.Record, error)
}

// BlobReader reads published snapshot bodies.
type BlobReader interface {
	// Open returns fs.ErrNotExist when the object is absent.
	Open(ctx context.Context, path string) ([]byte, error)
}

// Service serves published broadcasts by share code.
type Service struct {
	index  CodeIndex
	blobs  BlobReader
	logger *slog.Logger
	md     *converter.Converter
}

// NewService creates a viewer over the given code index and blob store.
func NewService(index CodeIndex, blobs BlobReader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		index:  index,
		blobs:  blobs,
		logger: logger,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Router returns the viewer's route tree. Both the query form (?c=CODE)
// and the path form (/c/CODE) resolve the same document; /c/CODE.md
// serves a markdown rendition.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(SecurityHeaders(DefaultHeaders()))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("c")
		if code == "" {
			http.Error(w, "missing broadcast code", http.StatusBadRequest)
			return
		}
		s.serveHTML(w, r, code)
	})
	r.Get("/c/{code}", func(w http.ResponseWriter, r *http.Request) {
		s.serveHTML(w, r, chi.URLParam(r, "code"))
	})
	r.Get("/c/{code}.md", func(w http.ResponseWriter, r *http.Request) {
		s.serveMarkdown(w, r, chi.URLParam(r, "code"))
	})
	return r
}

func (s *Service) serveHTML(w http.ResponseWriter, r *http.Request, code string) {
	body, rec, ok := s.load(w, r, code)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	fmt.Fprintf(w, "<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(rec.Title))
	w.Write(body)
	fmt.Fprint(w, "</body>\n</html>\n")
}

func (s *Service) serveMarkdown(w http.ResponseWriter, r *http.Request, code string) {
	body, rec, ok := s.load(w, r, code)
	if !ok {
		return
	}
	md, err := s.md.ConvertString(string(body))
	if err != nil {
		s.logger.Error("markdown conversion failed", "code", code, "error", err)
		http.Error(w, "conversion failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	fmt.Fprintf(w, "# %s\n\n%s", rec.Title, md)
}

// load resolves code → record → body, writing the error response itself.
// A malformed code is a 404 like an unknown one: the shape of valid codes
// is not part of the public contract.
func (s *Service) load(w http.ResponseWriter, r *http.Request, code string) ([]byte, *publish.Record, bool) {
	if !identity.ValidCode(code) {
		http.NotFound(w, r)
		return nil, nil, false
	}
	rec, err := s.index.FindByCode(r.Context(), code)
	if err != nil {
		s.logger.Error("code lookup failed", "code", code, "error", err)
		http.Error(w, "lookup failed", http.StatusBadGateway)
		return nil, nil, false
	}
	if rec == nil {
		http.NotFound(w, r)
		return nil, nil, false
	}
	body, err := s.blobs.Open(r.Context(), rec.OwnerID+"/"+rec.FileName+".html")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Record without a body: deleted out of band.
			http.NotFound(w, r)
			return nil, nil, false
		}
		s.logger.Error("blob read failed", "code", code, "error", err)
		http.Error(w, "read failed", http.StatusBadGateway)
		return nil, nil, false
	}
	return body, rec, true
}
