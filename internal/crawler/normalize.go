package crawler

import (
	"errors"
	"fmt"
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

// ErrMalformedURL is returned when a URL or link cannot be parsed or resolved
var ErrMalformedURL = errors.New("malformed URL")

// Normalizer canonicalizes URLs so equivalent spellings dedupe.
// WHATWG parsing lower-cases scheme and host, drops default ports and
// resolves dot segments; the fragment is stripped on serialization.
type Normalizer struct {
	parser whatwgUrl.Parser
}

// NewNormalizer creates a URL normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{
		parser: whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign()),
	}
}

// Normalize resolves raw against base and returns the canonical form.
// An empty base means raw must be absolute.
func (n *Normalizer) Normalize(raw, base string) (string, error) {
	raw = strings.TrimSpace(raw)

	var (
		u   *whatwgUrl.Url
		err error
	)
	if base == "" {
		u, err = n.parser.Parse(raw)
	} else {
		u, err = n.parser.ParseRef(base, raw)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedURL, raw, err)
	}

	return u.Href(true), nil
}
