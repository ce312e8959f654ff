// Package sumfile reads and writes checksum lines in the "<digest>  <name>"
// layout used by b2sum and the coreutils *sum tools.
package sumfile

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Encoding selects how digests are written.
type Encoding int

const (
	Hex Encoding = iota
	Base64
)

var ErrMalformed = errors.New("malformed checksum line")

// Entry is one parsed checksum line.
type Entry struct {
	Line int
	Sum  []byte
	Name string
}

// Encode returns sum in the given encoding.
func (e Encoding) Encode(sum []byte) string {
	if e == Base64 {
		return base64.StdEncoding.EncodeToString(sum)
	}
	return hex.EncodeToString(sum)
}

// Write writes a single checksum line.
func Write(w io.Writer, e Encoding, sum []byte, name string) error {
	_, err := fmt.Fprintf(w, "%s  %s\n", e.Encode(sum), name)
	return err
}

// Parse reads checksum lines from r. Blank lines and lines starting with '#'
// are skipped. Digests may be hex or standard base64; a '*' binary-mode
// marker before the name is accepted and dropped.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	s := bufio.NewScanner(r)
	for n := 1; s.Scan(); n++ {
		line := strings.TrimRight(s.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		digest, name, ok := strings.Cut(line, " ")
		if !ok || len(name) < 2 || (name[0] != ' ' && name[0] != '*') {
			return nil, fmt.Errorf("sumfile: line %d: %w", n, ErrMalformed)
		}
		name = name[1:]

		sum, err := decode(digest)
		if err != nil {
			return nil, fmt.Errorf("sumfile: line %d: %w: %v", n, ErrMalformed, err)
		}
		entries = append(entries, Entry{Line: n, Sum: sum, Name: name})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func decode(digest string) ([]byte, error) {
	if sum, err := hex.DecodeString(digest); err == nil {
		return sum, nil
	}
	return base64.StdEncoding.DecodeString(digest)
}
