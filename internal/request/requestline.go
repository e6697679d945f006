package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxLineBytes bounds the request line, terminator included.
const MaxLineBytes = 8192

var ErrLineTooLong = errors.New("request line too long")

// ReadLine reads the first line of a request. The line ends at "\n",
// "\r\n" or the end of the stream, and is returned without its terminator.
//
// ok is false when the stream ends before any byte arrives, when the line
// exceeds MaxLineBytes, or when the read fails before a line is complete;
// err reports the failure in the latter two cases. Anything after the first
// line is left unread.
//
// ReadLine blocks until a terminator, the end of the stream or
// MaxLineBytes of input arrives.
func ReadLine(r io.Reader) (line string, ok bool, err error) {
	raw, err := bufio.NewReaderSize(r, MaxLineBytes).ReadSlice('\n')
	switch {
	case err == nil:
		line = strings.TrimSuffix(string(raw[:len(raw)-1]), "\r")
		return line, true, nil
	case errors.Is(err, io.EOF):
		if len(raw) == 0 {
			return "", false, nil
		}
		return string(raw), true, nil
	case errors.Is(err, bufio.ErrBufferFull):
		return "", false, fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, MaxLineBytes)
	default:
		return "", false, fmt.Errorf("reading request line: %w", err)
	}
}
