package response

import "strconv"

// StatusCode represents HTTP status codes
type StatusCode int

const (
	StatusOK StatusCode = 200
)

var statusText = map[StatusCode]string{
	StatusOK: "OK",
}

// StatusText returns the reason phrase for a status code
func StatusText(code StatusCode) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Unknown Status"
}

// Status returns the status as it appears after the protocol version on
// the status line, e.g. "200 OK".
func (code StatusCode) Status() string {
	return strconv.Itoa(int(code)) + " " + StatusText(code)
}
