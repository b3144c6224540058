// Package wordlist loads the candidate inputs each run mode consumes:
// a plain word list, a user:password combolist, or the cross product
// of two word lists.
package wordlist

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// ReadLines reads path (or stdin when path is "-") and returns every
// non-empty line with surrounding whitespace trimmed.
func ReadLines(path string) ([]string, error) {
	r, closer, err := open(path)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Io, "reading %s", path)
	}
	return out, nil
}

// Pair is one user:password line of a combolist.
type Pair struct {
	User     string
	Password string
}

// ReadCombo parses a combolist file, one "user:password" pair per
// line, using the first ':' as the separator so passwords may
// themselves contain colons.
func ReadCombo(path string) ([]Pair, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	out := make([]Pair, 0, len(lines))
	for _, line := range lines {
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			return nil, scopeerr.New(scopeerr.Parse, nil, "combolist line missing ':' separator: "+line)
		}
		out = append(out, Pair{User: line[:idx], Password: line[idx+1:]})
	}
	return out, nil
}

// CrossProduct builds every (user, password) combination from two
// word lists, used by the "dict" run mode.
func CrossProduct(users, passwords []string) []Pair {
	out := make([]Pair, 0, len(users)*len(passwords))
	for _, u := range users {
		for _, p := range passwords {
			out = append(out, Pair{User: u, Password: p})
		}
	}
	return out
}

func open(path string) (io.Reader, io.Closer, error) {
	if path == "-" {
		return os.Stdin, nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, scopeerr.Annotatef(err, scopeerr.Io, "opening %s", path)
	}
	return f, f, nil
}
