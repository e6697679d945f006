package server

import (
	"errors"

	"github.com/Brownie44l1/upserver/internal/response"
)

const (
	DefaultAddr = ":8085"
	DefaultBody = "The server is <strong>up</strong>!"
)

var (
	ErrNoAddr        = errors.New("config: address must be set")
	ErrNoStatus      = errors.New("config: status must be set")
	ErrNoContentType = errors.New("config: content type must be set")
)

// Config holds the listening address and the response every request gets
type Config struct {
	Addr        string
	Status      string
	ContentType string
	Body        []byte
	LogLevel    string
}

// DefaultConfig returns the stock configuration: port 8085 and a 200 OK
// text/html "server is up" page.
func DefaultConfig() Config {
	return Config{
		Addr:        DefaultAddr,
		Status:      response.StatusOK.Status(),
		ContentType: "text/html",
		Body:        []byte(DefaultBody),
		LogLevel:    "info",
	}
}

// Valid reports every problem with the configuration
func (c Config) Valid() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, ErrNoAddr)
	}
	if c.Status == "" {
		errs = append(errs, ErrNoStatus)
	}
	if c.ContentType == "" {
		errs = append(errs, ErrNoContentType)
	}

	return errors.Join(errs...)
}

// Frame returns the response written for every request line
func (c Config) Frame() response.Frame {
	return response.Frame{
		Status:      c.Status,
		ContentType: c.ContentType,
		Content:     c.Body,
	}
}
