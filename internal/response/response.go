package response

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Brownie44l1/upserver/internal/headers"
)

const httpVersion = "HTTP/1.1"

var (
	ErrStatusWritten    = errors.New("status line already written")
	ErrStatusNotWritten = errors.New("must write status line before headers")
	ErrHeadersNotDone   = errors.New("must write headers before body")
	ErrBodyWritten      = errors.New("body already written")
	ErrInvalidField     = errors.New("status or header contains a line break")
)

// writerState tracks what's been written so far
type writerState int

const (
	stateStart writerState = iota
	stateStatusWritten
	stateHeadersWritten
	stateBodyWritten
)

// Writer writes one HTTP response to an io.Writer, enforcing the
// status line, headers, body order.
type Writer struct {
	w     io.Writer
	state writerState
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		state: stateStart,
	}
}

// WriteStatusLine writes "HTTP/1.1 <status>\r\n". status carries both the
// code and the reason phrase, e.g. "200 OK".
func (w *Writer) WriteStatusLine(status string) error {
	if w.state != stateStart {
		return ErrStatusWritten
	}
	if status == "" || strings.ContainsAny(status, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidField, status)
	}

	if err := w.write([]byte(httpVersion + " " + status + "\r\n")); err != nil {
		return err
	}

	w.state = stateStatusWritten
	return nil
}

// WriteHeaders writes all headers in order followed by the blank line
func (w *Writer) WriteHeaders(h *headers.Headers) error {
	if w.state != stateStatusWritten {
		return ErrStatusNotWritten
	}

	for _, name := range h.Names() {
		for _, value := range h.GetAll(name) {
			if strings.ContainsAny(name, "\r\n") || strings.ContainsAny(value, "\r\n") {
				return fmt.Errorf("%w: %s", ErrInvalidField, name)
			}
		}
	}

	if _, err := h.WriteTo(w.w); err != nil {
		return err
	}

	if err := w.write([]byte("\r\n")); err != nil {
		return err
	}

	w.state = stateHeadersWritten
	return nil
}

// WriteBody writes the complete response body. An empty body writes nothing.
func (w *Writer) WriteBody(data []byte) error {
	switch w.state {
	case stateHeadersWritten:
	case stateBodyWritten:
		return ErrBodyWritten
	default:
		return ErrHeadersNotDone
	}

	if len(data) > 0 {
		if err := w.write(data); err != nil {
			return err
		}
	}

	w.state = stateBodyWritten
	return nil
}

func (w *Writer) write(p []byte) error {
	_, err := w.w.Write(p)
	return err
}
