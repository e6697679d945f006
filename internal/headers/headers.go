package headers

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

var crlf = []byte("\r\n")

type field struct {
	name   string
	values []string
}

// Headers is an insertion-ordered header set. Lookups are case-insensitive,
// names are written back with the case they were first set with.
type Headers struct {
	fields []field
	index  map[string]int
}

func NewHeaders() *Headers {
	return &Headers{
		index: make(map[string]int),
	}
}

// Get returns the first value for a header
func (h *Headers) Get(key string) (string, bool) {
	values := h.GetAll(key)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// GetAll returns all values for a header
func (h *Headers) GetAll(key string) []string {
	i, ok := h.index[strings.ToLower(key)]
	if !ok {
		return nil
	}
	return h.fields[i].values
}

// Names returns header names in insertion order
func (h *Headers) Names() []string {
	names := make([]string, 0, len(h.fields))
	for _, f := range h.fields {
		names = append(names, f.name)
	}
	return names
}

// Set replaces all values for a header, keeping its original position
func (h *Headers) Set(key, value string) {
	if i, ok := h.index[strings.ToLower(key)]; ok {
		h.fields[i].values = []string{value}
		return
	}
	h.index[strings.ToLower(key)] = len(h.fields)
	h.fields = append(h.fields, field{name: key, values: []string{value}})
}

// Add appends a value to a header
func (h *Headers) Add(key, value string) {
	if i, ok := h.index[strings.ToLower(key)]; ok {
		h.fields[i].values = append(h.fields[i].values, value)
		return
	}
	h.Set(key, value)
}

// WriteTo writes every header line followed by CRLF. It does not write the
// blank line that ends the header block.
func (h *Headers) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, f := range h.fields {
		for _, value := range f.values {
			n, err := fmt.Fprintf(w, "%s: %s\r\n", f.name, value)
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// Parse parses header lines from raw bytes until the blank line.
// It returns the bytes consumed and whether the blank line was reached.
func (h *Headers) Parse(data []byte) (int, bool, error) {
	read := 0
	done := false

	for {
		idx := bytes.Index(data[read:], crlf)
		if idx == -1 {
			// Need more data
			break
		}

		if idx == 0 {
			done = true
			read += 2
			break
		}

		line := data[read : read+idx]

		if line[0] == ' ' || line[0] == '\t' {
			return read, false, fmt.Errorf("obsolete line folding not supported")
		}

		name, value, err := parseHeader(line)
		if err != nil {
			return read, done, err
		}

		h.Add(name, value)

		read += idx + 2
	}

	return read, done, nil
}

func parseHeader(line []byte) (string, string, error) {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return "", "", fmt.Errorf("malformed header: no colon")
	}

	name := line[:colonIdx]
	value := line[colonIdx+1:]

	if bytes.ContainsAny(name, " \t") {
		return "", "", fmt.Errorf("malformed header: whitespace in name")
	}

	for _, b := range name {
		if !isValidHeaderChar(b) {
			return "", "", fmt.Errorf("invalid character in header name: %c", b)
		}
	}

	return string(name), string(bytes.TrimSpace(value)), nil
}

func isValidHeaderChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') ||
		(b >= 'a' && b <= 'z') ||
		(b >= '0' && b <= '9') ||
		b == '!' || b == '#' || b == '$' || b == '%' || b == '&' ||
		b == '\'' || b == '*' || b == '+' || b == '-' || b == '.' ||
		b == '^' || b == '_' || b == '`' || b == '|' || b == '~'
}
