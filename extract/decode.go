package extract

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Decoder converts matched string literals to text. Valid UTF-8 is taken as
// is; anything else goes through the fallback encoding, if one is set.
type Decoder struct {
	name     string
	fallback encoding.Encoding
}

// NewDecoder returns a decoder with the given IANA fallback encoding name
// (e.g. "windows-1252", "ISO-8859-1"). An empty name means strict UTF-8.
func NewDecoder(fallback string) (*Decoder, error) {
	if fallback == "" {
		return &Decoder{}, nil
	}
	enc, err := ianaindex.IANA.Encoding(fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback encoding %q: %w", fallback, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("fallback encoding %q is not supported", fallback)
	}
	return &Decoder{name: fallback, fallback: enc}, nil
}

// Decode returns b as a string.
func (d *Decoder) Decode(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	if d == nil || d.fallback == nil {
		return "", fmt.Errorf("invalid UTF-8 in string literal %q", b)
	}
	out, err := d.fallback.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding string literal as %s: %w", d.name, err)
	}
	return string(out), nil
}
