package api

import (
	"context"
	"net/http"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/pipeline/types"
)

type ServerConfig struct {
	Addr        string
	ReadTimeout time.Duration
}

type Server struct {
	editor     types.Editor
	config     ServerConfig
	httpServer *http.Server
}

func NewServer(editor types.Editor, config ServerConfig, routerCfg RouterConfig) *Server {
	s := &Server{
		editor: editor,
		config: config,
	}
	// no WriteTimeout, it would cut the websocket stream; frames carry their own deadline
	s.httpServer = &http.Server{
		Addr:        config.Addr,
		Handler:     SetupRouter(editor, routerCfg),
		ReadTimeout: config.ReadTimeout,
	}
	return s
}

// Start blocks until the server stops.
func (s *Server) Start() error {
	log.Infof("pipeline editor API listening on %s", s.config.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Annotatef(err, "listen on %s", s.config.Addr)
	}
	return nil
}

// Shutdown stops accepting requests, then closes the editor.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down pipeline editor API")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Annotatef(err, "shutdown server")
	}
	return errors.Trace(s.editor.Close(ctx))
}

func (s *Server) Addr() string {
	return s.config.Addr
}
