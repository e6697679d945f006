package server

import (
	"errors"
	"fmt"
)

// ErrServerClosed is returned by Serve after Close
var ErrServerClosed = errors.New("server closed")

// BindError reports that the listening address could not be bound
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}
