package alme

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/arcella-project/arcella/internal/infrastructure/config"
	"github.com/arcella-project/arcella/internal/infrastructure/logging"
	"github.com/arcella-project/arcella/internal/registry"
	"github.com/arcella-project/arcella/internal/runtime"
)

// MaxRequestLength caps an incoming request line. Longer requests are
// rejected to prevent resource exhaustion.
const MaxRequestLength = 64 * 1024

// socketPermissions restricts the socket to its owner.
const socketPermissions = 0o600

// RuntimeInfo is the slice of the runtime the server queries.
type RuntimeInfo interface {
	Status(ctx context.Context) runtime.Status
	Modules(ctx context.Context) ([]registry.Module, error)
	Resolved() *config.Resolved
}

// Server owns the Unix socket listener and its connection handlers.
type Server struct {
	socketPath string
	runtime    RuntimeInfo
	logger     *logging.Logger

	listener net.Listener
	wg       sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// NewServer creates a server bound to nothing yet; Start binds the socket.
func NewServer(socketPath string, rt RuntimeInfo, logger *logging.Logger) *Server {
	return &Server{
		socketPath: socketPath,
		runtime:    rt,
		logger:     logger.With("component", "alme"),
		conns:      make(map[net.Conn]struct{}),
	}
}

// Start binds the Unix socket and begins accepting connections in the
// background. Any stale socket file left by a previous run is removed
// first. The socket is created with 0600 permissions.
func (s *Server) Start(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("removing stale socket", "path", s.socketPath, "error", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("binding management socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, socketPermissions); err != nil {
		listener.Close() //nolint:errcheck // Best effort cleanup on error path
		return fmt.Errorf("restricting socket permissions: %w", err)
	}
	s.listener = listener

	s.wg.Add(1)
	go s.acceptLoop(ctx)

	s.logger.Info("management socket listening", "path", s.socketPath)
	return nil
}

// Close stops accepting connections, closes active ones, waits for their
// handlers and removes the socket file.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close() //nolint:errcheck // Unblocks the handler's read
	}
	s.mu.Unlock()

	s.wg.Wait()

	if rmErr := os.Remove(s.socketPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		s.logger.Warn("removing socket on shutdown", "path", s.socketPath, "error", rmErr)
	}
	return err
}

func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.logger.Error("accept failed", "error", err)
			}
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConnection(ctx, conn)
	}
}

// handleConnection serves one client for the connection's lifetime: one
// JSON request per line, one JSON response per line. Empty lines are
// ignored without a response.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close() //nolint:errcheck // Read side already done
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), MaxRequestLength)
	writer := bufio.NewWriter(conn)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var request Request
		var response Response
		if err := json.Unmarshal([]byte(line), &request); err != nil {
			response = errorResponse(fmt.Sprintf("invalid JSON: %v", err))
		} else {
			response = s.dispatch(ctx, request)
		}

		if err := s.send(writer, response); err != nil {
			s.logger.Warn("sending response", "error", err)
			return
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			// Best effort; the framing is lost, so close after telling
			// the client why.
			_ = s.send(writer, errorResponse("request too large")) //nolint:errcheck
			return
		}
		if !errors.Is(err, net.ErrClosed) {
			s.logger.Warn("reading request", "error", err)
		}
	}
}

func (s *Server) send(writer *bufio.Writer, response Response) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := writer.Write(payload); err != nil {
		return err
	}
	return writer.Flush()
}

// moduleInfo is the wire form of a registry record.
type moduleInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Path    string `json:"path"`
	Enabled bool   `json:"enabled"`
}

// configGetArgs are the arguments of config:get.
type configGetArgs struct {
	Key string `json:"key"`
}

func (s *Server) dispatch(ctx context.Context, request Request) Response {
	switch request.Cmd {
	case "ping":
		return successResponse("pong", nil)

	case "status":
		return successResponse("Arcella runtime is active", s.runtime.Status(ctx))

	case "module:list":
		modules, err := s.runtime.Modules(ctx)
		if err != nil {
			return errorResponse(fmt.Sprintf("listing modules: %v", err))
		}
		infos := make([]moduleInfo, 0, len(modules))
		for _, m := range modules {
			infos = append(infos, moduleInfo{
				ID:      m.ID,
				Name:    m.Name,
				Version: m.Version,
				Path:    m.Path,
				Enabled: m.Enabled,
			})
		}
		return successResponse(fmt.Sprintf("%d modules", len(infos)), infos)

	case "config:get":
		var args configGetArgs
		if err := json.Unmarshal(request.Args, &args); err != nil || args.Key == "" {
			return errorResponse("config:get requires an args object with a key field")
		}
		resolved := s.runtime.Resolved()
		value, ok := resolved.Get(args.Key)
		if !ok {
			return errorResponse(fmt.Sprintf("unknown configuration key %q", args.Key))
		}
		source, _ := resolved.Source(args.Key)
		return successResponse("ok", map[string]any{
			"key":    args.Key,
			"value":  value,
			"source": source,
		})

	case "config:warnings":
		warnings := s.runtime.Resolved().Warnings()
		rendered := make([]string, 0, len(warnings))
		for _, w := range warnings {
			rendered = append(rendered, w.String())
		}
		return successResponse(fmt.Sprintf("%d warnings", len(rendered)), rendered)

	default:
		return errorResponse(fmt.Sprintf("unknown command %q", request.Cmd))
	}
}
