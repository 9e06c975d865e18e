// Package tokens handles ordered scene-token lists for batch runs.
package tokens

import (
	"fmt"
	"os"
	"strings"
)

// canonical tokens are 16 lowercase hex characters, but the dataset does
// not guarantee it, so callers only get a warning hook via LooksCanonical.
const canonicalLen = 16

// List is an ordered sequence of scene tokens. Order is significant:
// the 1-based position of a token determines output file numbering.
type List []string

// Parse splits a comma-separated token string into a List. Whitespace
// around entries is trimmed and empty entries are dropped.
func Parse(s string) List {
	var out List
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Load reads a token file: one token per line, blank lines and lines
// starting with '#' are skipped.
func Load(path string) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var out List
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// LooksCanonical reports whether tok has the canonical 16-character
// lowercase hex form. Non-canonical tokens are still accepted; this is
// advisory only.
func LooksCanonical(tok string) bool {
	if len(tok) != canonicalLen {
		return false
	}
	for _, c := range tok {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
