// Package control exposes the player over a newline-delimited TCP
// protocol. Each request is one line; responses are zero or more
// payload lines followed by a terminating "OK" or "ERR <message>".
package control

import (
	"bufio"
	"net"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"quaver/internal/app/playback"
	"quaver/internal/app/rules"
	"quaver/internal/domain/track"
)

const greeting = "OK quaver 1"

// Catalog is the library surface the control server queries.
type Catalog interface {
	Tracks(f track.Filters) ([]track.Track, error)
	Search(term string) ([]track.Track, error)
	Distinct(field string) ([]string, error)
}

// Server serves the control protocol.
type Server struct {
	mu       sync.Mutex
	listener net.Listener
	running  bool

	addr      string
	player    *playback.Controller
	catalog   Catalog
	playlists map[string]*rules.Chain
}

// NewServer creates a control server for the given player and catalog.
// playlists maps smart playlist names to their rule chains.
func NewServer(addr string, player *playback.Controller, catalog Catalog, playlists map[string]*rules.Chain) *Server {
	return &Server{
		addr:      addr,
		player:    player,
		catalog:   catalog,
		playlists: playlists,
	}
}

// Start begins listening and accepting clients.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("control server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrap(err, "failed to start control server")
	}

	s.listener = listener
	s.running = true
	zlog.Info().Str("addr", s.addr).Msg("control: listening")

	go s.acceptLoop()
	return nil
}

// Stop stops accepting clients and closes the listener.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	return s.listener.Close()
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			zlog.Warn().Err(err).Msg("control: accept error")
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	zlog.Debug().Stringer("remote", conn.RemoteAddr()).Msg("control: client connected")

	w := bufio.NewWriter(conn)
	_, _ = w.WriteString(greeting + "\n")
	_ = w.Flush()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "close") {
			return
		}

		resp := s.handleCommand(line)
		if _, err := w.WriteString(resp); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}
