// Package server accepts TCP connections and answers one HTTP/1.1 request
// per connection through the router.
package server

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"dockside/internal/config"
	"dockside/internal/errors"
	"dockside/internal/handler"
	"dockside/internal/request"
	"dockside/internal/response"
)

// Router is what the server needs from the router.
type Router interface {
	Route(ctx context.Context, req *request.Request, w io.Writer) error
}

// Server is the connection loop.
type Server struct {
	addr         string
	router       Router
	logger       *slog.Logger
	limits       request.Limits
	readTimeout  time.Duration
	writeTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

// New creates a server for the given configuration.
func New(cfg config.ServerConfig, router Router, logger *slog.Logger) *Server {
	limits := request.DefaultLimits()
	if cfg.MaxHeaderBytes > 0 {
		limits.MaxHeaderBytes = cfg.MaxHeaderBytes
	}
	if cfg.MaxBodyBytes > 0 {
		limits.MaxBodyBytes = cfg.MaxBodyBytes
	}
	return &Server{
		addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		router:       router,
		logger:       logger,
		limits:       limits,
		readTimeout:  time.Duration(cfg.ReadTimeoutMs) * time.Millisecond,
		writeTimeout: time.Duration(cfg.WriteTimeoutMs) * time.Millisecond,
	}
}

// ListenAndServe listens on the configured address and serves until ctx is
// canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then closes ln and
// waits for in-flight connections to finish. It takes ownership of ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("Listening", "addr", ln.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	// In-flight connections finish even after shutdown begins; deadlines
	// bound how long that takes.
	connCtx := context.WithoutCancel(ctx)

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				s.logger.Info("Server stopped")
				return nil
			}

			// Errors such as EMFILE or a timeout clear up on their own.
			backoff = nextBackoff(backoff)
			s.logger.Warn("Accept failed, retrying",
				"error", err.Error(),
				"backoff", backoff,
			)
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(connCtx, conn)
		}()
	}
}

// Accept retry delays double from minAcceptBackoff up to maxAcceptBackoff.
const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptBackoff
	}
	return min(2*d, maxAcceptBackoff)
}

// Addr returns the address being served, or nil before Serve is called.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	id := uuid.New().String()
	logger := s.logger.With("conn", id, "remote", conn.RemoteAddr().String())
	ctx = handler.WithRequestID(ctx, id)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in connection",
				"error", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			_ = response.New(response.StatusInternalServerError, nil, "").Serialize(conn)
		}
		_ = conn.Close()
	}()

	if s.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}

	req, err := request.Parse(bufio.NewReader(conn), s.limits)
	if err != nil {
		logger.Warn("Rejected request", "error", err.Error())
		s.setWriteDeadline(conn)
		if werr := response.New(errors.StatusFor(errors.CodeOf(err)), nil, "").Serialize(conn); werr != nil {
			logger.Debug("Failed to write response", "error", werr.Error())
		}
		return
	}

	s.setWriteDeadline(conn)
	if err := s.router.Route(ctx, req, conn); err != nil {
		logger.Warn("Failed to write response",
			"path", req.Path,
			"code", string(errors.CodeOf(err)),
			"error", err.Error(),
		)
	}
}

func (s *Server) setWriteDeadline(conn net.Conn) {
	if s.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
}
