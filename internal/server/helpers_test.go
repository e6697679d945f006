package server

import (
	"bytes"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const getRequest = "GET / HTTP/1.1\r\nHost: localhost:8085\r\n\r\n"

var wantResponse = "HTTP/1.1 200 OK\r\n" +
	"Content-Type: text/html\r\n" +
	"Content-Length: " + strconv.Itoa(len(DefaultBody)) + "\r\n" +
	"Connection: close\r\n" +
	"\r\n" +
	DefaultBody

type logEntry struct {
	level  string
	msg    string
	fields []Field
}

// recordingLogger keeps every entry so tests can assert on what was logged
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *recordingLogger) Debug(msg string, fields ...Field) { r.add("DEBUG", msg, fields) }
func (r *recordingLogger) Info(msg string, fields ...Field)  { r.add("INFO", msg, fields) }
func (r *recordingLogger) Error(msg string, fields ...Field) { r.add("ERROR", msg, fields) }
func (r *recordingLogger) Warn(msg string, fields ...Field)  { r.add("WARN", msg, fields) }

func (r *recordingLogger) add(level, msg string, fields []Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (r *recordingLogger) count(msg string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.msg == msg {
			n++
		}
	}
	return n
}

func (r *recordingLogger) requestLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var lines []string
	for _, e := range r.entries {
		if e.msg != "request" {
			continue
		}
		for _, f := range e.fields {
			if f.Key == "line" {
				lines = append(lines, f.Value.(string))
			}
		}
	}
	return lines
}

func (r *recordingLogger) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		msgs = append(msgs, e.msg)
	}
	return msgs
}

// fakeConn is an in-memory connection for driving an Exchange directly
type fakeConn struct {
	in       io.Reader
	out      bytes.Buffer
	writeErr error
	closed   bool
}

func newFakeConn(input string) *fakeConn {
	return &fakeConn{in: strings.NewReader(input)}
}

func (c *fakeConn) Read(p []byte) (int, error) {
	if c.closed {
		return 0, net.ErrClosed
	}
	return c.in.Read(p)
}

func (c *fakeConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	return c.out.Write(p)
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeAddr struct{}

func (fakeAddr) Network() string { return "fake" }
func (fakeAddr) String() string  { return "fake:8085" }

// fakeListener hands out whatever the test sends on conns or errs. Both
// channels are unbuffered, so a send completes only when Serve is blocked
// in Accept.
type fakeListener struct {
	conns chan net.Conn
	errs  chan error
	done  chan struct{}
	once  sync.Once
}

func newFakeListener() *fakeListener {
	return &fakeListener{
		conns: make(chan net.Conn),
		errs:  make(chan error),
		done:  make(chan struct{}),
	}
}

func (l *fakeListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case err := <-l.errs:
		return nil, err
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *fakeListener) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

func (l *fakeListener) Addr() net.Addr {
	return fakeAddr{}
}

// dial queues a new in-memory connection on the listener and returns the
// client side. It blocks until the server accepts it.
func (l *fakeListener) dial(t *testing.T) net.Conn {
	t.Helper()
	client, srv := net.Pipe()
	t.Cleanup(func() { client.Close() })
	select {
	case l.conns <- srv:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not accept the connection")
	}
	return client
}

// startServer runs srv.Serve(l) in the background and stops it at cleanup
func startServer(t *testing.T, srv *Server, l net.Listener) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		errCh <- srv.Serve(l)
		close(done)
	}()
	t.Cleanup(func() {
		srv.Close()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Serve did not return after Close")
		}
	})
	return errCh
}

// exchange sends request on conn and reads until the server closes it
func exchange(t *testing.T, conn net.Conn, request string) string {
	t.Helper()
	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))
	_, err := conn.Write([]byte(request))
	require.NoError(t, err)
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(resp)
}
