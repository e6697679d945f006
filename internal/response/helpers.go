package response

import (
	"bytes"
	"io"
	"strconv"

	"github.com/Brownie44l1/upserver/internal/headers"
)

// Frame is a complete, non-persistent HTTP response: one status line,
// Content-Type, Content-Length and Connection: close headers, and a body.
type Frame struct {
	Status      string
	ContentType string
	Content     []byte
}

// Headers returns the frame's header block in wire order
func (f Frame) Headers() *headers.Headers {
	h := headers.NewHeaders()
	h.Set("Content-Type", f.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(f.Content)))
	h.Set("Connection", "close")
	return h
}

// WriteFrame writes f to w as a complete response
func WriteFrame(w io.Writer, f Frame) error {
	return NewWriter(w).WriteFrame(f)
}

// Bytes returns the serialized frame
func (f Frame) Bytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := WriteFrame(buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFrame writes f as a complete response
func (w *Writer) WriteFrame(f Frame) error {
	if err := w.WriteStatusLine(f.Status); err != nil {
		return err
	}

	if err := w.WriteHeaders(f.Headers()); err != nil {
		return err
	}

	return w.WriteBody(f.Content)
}
