package langfile

import (
	"fmt"
	"os"
)

// Language is one entry of index.json.
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// Index is the language list the game loads from index.json. l10nsync
// never rewrites it.
type Index struct {
	Languages []Language `json:"languages"`
}

// ParseIndex reads index.json.
func ParseIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var ix Index
	if err := decode(data, &ix); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &ix, nil
}

// Lookup returns the index entry whose code equals code.
func (ix *Index) Lookup(code string) (Language, bool) {
	if ix == nil {
		return Language{}, false
	}
	for _, l := range ix.Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
