package session

import (
	"bufio"
	"io"
)

// lineReader is the interactive LineReader over an io.Reader, one line per
// call, trailing newline stripped.
type lineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader wraps r in a buffered line reader. The end of r is reported
// as io.EOF, which the session treats as the deliberate end of input.
func NewLineReader(r io.Reader) LineReader {
	return &lineReader{scanner: bufio.NewScanner(r)}
}

// ReadLine implements LineReader.
func (l *lineReader) ReadLine() (string, error) {
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return l.scanner.Text(), nil
}
