package server

import (
	"fmt"
	"io"

	"github.com/Brownie44l1/upserver/internal/request"
	"github.com/Brownie44l1/upserver/internal/response"
)

// Exchange serves one connection: read the first line, answer it with a
// fixed frame, close.
type Exchange struct {
	frame  response.Frame
	logger Logger
}

// NewExchange creates an exchange that answers every request line with frame
func NewExchange(frame response.Frame, logger Logger) *Exchange {
	if logger == nil {
		logger = &NullLogger{}
	}
	return &Exchange{
		frame:  frame,
		logger: logger,
	}
}

// Handle runs one exchange on conn and always closes it. responded reports
// whether a complete response was written; err is the write failure, if any.
// A connection that yields no request line gets no response and no error.
func (e *Exchange) Handle(conn io.ReadWriteCloser) (responded bool, err error) {
	defer conn.Close()

	line, ok, readErr := request.ReadLine(conn)
	if !ok {
		if readErr != nil {
			e.logger.Debug("no request line", Field{"error", readErr})
		}
		return false, nil
	}

	e.logger.Info("request", Field{"line", line})

	if err := response.WriteFrame(conn, e.frame); err != nil {
		return false, fmt.Errorf("writing response: %w", err)
	}
	return true, nil
}
