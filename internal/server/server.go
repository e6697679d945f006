package server

import (
	"errors"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server accepts connections one at a time and runs an Exchange on each
// before accepting the next. There is no per-connection goroutine and no
// read timeout: a client that connects and stays silent holds the server.
type Server struct {
	exchange *Exchange
	logger   Logger
	metrics  *Metrics

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
}

type Option func(*Server)

// WithLogger routes all server output to l
func WithLogger(l Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics records counters on m
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a server that answers every request line with cfg's frame
func New(cfg Config, opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = NewDefaultLogger()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	s.exchange = NewExchange(cfg.Frame(), s.logger)
	return s
}

// Listen binds a TCP listener on addr
func Listen(addr string) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, &BindError{Addr: addr, Err: err}
	}
	return l, nil
}

// ListenAndServe binds addr and serves on it. A bind failure is returned as
// *BindError before any connection is accepted.
func (s *Server) ListenAndServe(addr string) error {
	l, err := Listen(addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve runs the accept loop on l until Close is called, returning
// ErrServerClosed. Accept errors are logged and retried with backoff.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	if s.closed.Load() {
		l.Close()
		return ErrServerClosed
	}

	s.logger.Info("server is running", Field{"addr", addrString(l.Addr())})

	var delay time.Duration
	for {
		s.logger.Info("waiting for a request")

		conn, err := l.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			s.metrics.AcceptErrors.Inc()
			delay = nextAcceptDelay(delay)
			s.logger.Error("error accepting connection",
				Field{"error", err},
				Field{"retry_in", delay.String()},
			)
			time.Sleep(delay)
			continue
		}

		delay = 0
		s.metrics.ConnectionsAccepted.Inc()
		s.serveConn(conn)
	}
}

// Close stops the accept loop. A connection already being served is
// finished first.
func (s *Server) Close() error {
	s.closed.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// Metrics returns the counters the server records on
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) serveConn(conn net.Conn) {
	start := time.Now()
	remote := addrString(conn.RemoteAddr())

	defer func() {
		if r := recover(); r != nil {
			conn.Close()
			s.logger.Error("panic serving connection",
				Field{"error", r},
				Field{"remote", remote},
				Field{"stack", string(debug.Stack())},
			)
		}
	}()

	responded, err := s.exchange.Handle(conn)
	if err != nil {
		s.logger.Error("failed to send response",
			Field{"error", err},
			Field{"remote", remote},
		)
	}
	s.metrics.RecordExchange(responded, err, time.Since(start))
}

func nextAcceptDelay(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptDelay
	}
	d *= 2
	if d > maxAcceptDelay {
		d = maxAcceptDelay
	}
	return d
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
