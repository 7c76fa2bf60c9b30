package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kmarsden/relayd/internal/logging"
)

// chunkSize is how much is read from either side of a connection per
// syscall before being forwarded.
const chunkSize = 16 * 1024

// Config holds the relay configuration.
type Config struct {
	Listen      string        // address client connections are accepted on
	Upstream    string        // address relayed connections are dialed to
	DialTimeout time.Duration // bound on the upstream dial
}

// Server accepts client connections and relays them byte-for-byte to the
// configured upstream. Connection lifecycle is logged at Info, relayed
// payload chunks are hex-dumped at Vverb.
type Server struct {
	config   *Config
	listener net.Listener
	wg       sync.WaitGroup

	mu          sync.Mutex
	activeConns map[string]net.Conn

	current atomic.Int64
	total   atomic.Uint64
}

// New creates a new Server instance.
func New(config *Config) (*Server, error) {
	if config.Upstream == "" {
		return nil, fmt.Errorf("upstream address is required")
	}
	return &Server{
		config:      config,
		activeConns: make(map[string]net.Conn),
	}, nil
}

// Listen binds the relay's listening socket. Split from Serve so callers
// know the port (possibly ephemeral) before accepting starts.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	s.listener = listener
	logging.Noticef("relay listening on %s, upstream %s", listener.Addr(), s.config.Upstream)
	return nil
}

// Addr returns the bound listening address. Valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until the listener is closed by Shutdown.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logging.Errorf("accept on %s failed: %v", s.listener.Addr(), err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// ListenAndServe binds the listener and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// handleConn relays one client connection to the upstream and back.
func (s *Server) handleConn(client net.Conn) {
	cid := uuid.NewString()

	s.mu.Lock()
	s.activeConns[cid] = client
	s.mu.Unlock()
	s.current.Add(1)
	s.total.Add(1)

	defer func() {
		client.Close()
		s.mu.Lock()
		delete(s.activeConns, cid)
		s.mu.Unlock()
		s.current.Add(-1)
		logging.Infof("conn %s closed", cid)
	}()

	logging.Infof("conn %s accepted from %s", cid, client.RemoteAddr())

	upstream, err := net.DialTimeout("tcp", s.config.Upstream, s.config.DialTimeout)
	if err != nil {
		logging.Errorf("conn %s: dialing upstream %s failed: %v", cid, s.config.Upstream, err)
		return
	}
	defer upstream.Close()

	logging.Debugf(logging.Debug, "conn %s connected to upstream %s", cid, upstream.RemoteAddr())

	var pipes sync.WaitGroup
	pipes.Add(2)
	go func() {
		defer pipes.Done()
		s.pipe(cid, "client->upstream", client, upstream)
	}()
	go func() {
		defer pipes.Done()
		s.pipe(cid, "upstream->client", upstream, client)
	}()
	pipes.Wait()
}

// pipe copies bytes from src to dst until either side gives up, dumping
// each chunk at the Vverb level. This is the hot path the logging core's
// cheap-when-disabled contract exists for.
func (s *Server) pipe(cid, dir string, src, dst net.Conn) {
	buf := make([]byte, chunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			logging.Hexdumpf(logging.Vverb, buf[:n], "conn %s %s %d bytes", cid, dir, n)
			if _, werr := dst.Write(buf[:n]); werr != nil {
				logging.Debugf(logging.Debug, "conn %s %s write failed: %v", cid, dir, werr)
				break
			}
		}
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logging.Debugf(logging.Verb, "conn %s %s read done: %v", cid, dir, err)
			}
			break
		}
	}
	// Half-close toward dst so the peer sees EOF; fall back to a full
	// close for non-TCP conns.
	if tc, ok := dst.(*net.TCPConn); ok {
		tc.CloseWrite()
	} else {
		dst.Close()
	}
	if tc, ok := src.(*net.TCPConn); ok {
		tc.CloseRead()
	}
}

// Shutdown closes the listener, severs active connections and waits for
// handlers to drain, or gives up when ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.listener != nil {
		s.listener.Close()
	}

	s.mu.Lock()
	for cid, conn := range s.activeConns {
		logging.Debugf(logging.Debug, "conn %s severed on shutdown", cid)
		conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		logging.Noticef("relay on %s stopped", s.config.Listen)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown did not drain in time: %w", ctx.Err())
	}
}

// Counters returns the current and lifetime connection counts, read by
// the stats endpoint.
func (s *Server) Counters() (current int64, total uint64) {
	return s.current.Load(), s.total.Load()
}
