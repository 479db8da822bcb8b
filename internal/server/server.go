// Package server is a small json-server style backend for the posts
// collection, used for local development and the client's tests.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/postboard/internal/model"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	engine *gin.Engine
	log    *slog.Logger
}

type Options struct {
	DefaultImage string
	// Collection is the mount path; "/posts" when empty.
	Collection string
}

// New wires handlers, CORS, request ids, logging and metrics around repo.
func New(repo Repository, log *slog.Logger, opt Options) *Server {
	if opt.DefaultImage == "" {
		opt.DefaultImage = model.DefaultImage
	}
	if opt.Collection == "" {
		opt.Collection = "/posts"
	}

	engine := gin.New()
	m := newMetrics()

	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", requestIDHeader}
	cfg.MaxAge = 12 * time.Hour

	engine.Use(gin.Recovery(), requestID(), requestLogger(log), m.middleware(), cors.New(cfg))

	engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.GET("/metrics", m.handler())

	h := &postHandler{repo: repo, defaultImage: opt.DefaultImage}
	h.register(engine.Group(opt.Collection))

	return &Server{engine: engine, log: log}
}

func (s *Server) Engine() *gin.Engine { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("posts server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down posts server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
