// CLAUDE:SUMMARY Entry point for broadcastd — snapshot/publish HTTP service with optional MCP stdio transport.
// Command broadcastd serves the broadcast feature of the schedule editor:
// the editor-facing publish API and the public read-only viewer.
//
// Usage:
//
//	broadcastd -config broadcastd.yaml
//	broadcastd -mcp                      # also expose MCP tools on stdio
package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/showgrid/broadcast/audit"
	"github.com/showgrid/broadcast/auth"
	"github.com/showgrid/broadcast/blob"
	"github.com/showgrid/broadcast/publish"
	"github.com/showgrid/broadcast/store"
	"github.com/showgrid/broadcast/viewer"
)

func main() {
	configPath := flag.String("config", "", "path to broadcastd.yaml config file")
	mcpStdio := flag.Bool("mcp", false, "expose MCP tools on stdio")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	// Stderr keeps stdout clean for the MCP stdio transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *mcpStdio); err != nil {
		logger.Error("broadcastd: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath string, mcpStdio bool) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	secretInput := os.Getenv("SESSION_SECRET")
	if secretInput == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	// Derive a 32-byte JWT secret via SHA-256 whatever the input length.
	secretHash := sha256.Sum256([]byte(secretInput))
	jwtSecret := secretHash[:]

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	blobs, err := blob.NewDir(cfg.BlobDir)
	if err != nil {
		return fmt.Errorf("open blob dir: %w", err)
	}

	auditLogger := audit.NewSQLiteLogger(st.DB())
	if err := auditLogger.Init(); err != nil {
		return fmt.Errorf("audit init: %w", err)
	}
	defer auditLogger.Close()

	session := publish.NewSession(ctx, st, logger)

	// The HTTP surface resolves the owner from the request's JWT; MCP is a
	// local single-user surface with a fixed configured owner. Both share
	// the session, record store and blob store.
	coord := publish.New(publish.Config{
		Auth:       auth.ContextProvider{},
		Records:    st,
		Blobs:      blobs,
		Session:    session,
		ViewerBase: cfg.ViewerBase,
		Logger:     logger,
		Audit:      auditLogger,
	})

	if mcpStdio {
		mcpCoord := publish.New(publish.Config{
			Auth:       fixedOwner{id: cfg.MCPOwnerID},
			Records:    st,
			Blobs:      blobs,
			Session:    session,
			ViewerBase: cfg.ViewerBase,
			Logger:     logger,
			Audit:      auditLogger,
		})
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "broadcast",
			Version: "1.0.0",
		}, nil)
		mcpCoord.RegisterMCP(srv)
		go func() {
			logger.Info("MCP stdio starting")
			if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				logger.Error("MCP stdio", "error", err)
			}
		}()
	}

	r := chi.NewRouter()
	r.Use(auth.Middleware(jwtSecret)) // soft: parses JWT, never enforces

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	viewer.NewAPI(coord).Routes(r)
	r.Mount("/b", viewer.NewService(st, blobs, logger).Router())

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("server stopped")
	return nil
}

// fixedOwner publishes everything under one configured identity.
type fixedOwner struct {
	id string
}

func (f fixedOwner) CurrentUser(ctx context.Context) (*publish.User, error) {
	return &publish.User{ID: f.id}, nil
}
