// Package langfile reads and writes the per-language JSON translation files
// under data/languages/.
//
// A file written by l10nsync looks like:
//
//	{
//		"authors": [
//			"someone"
//		],
//		"translated strings": [
//			{
//				"context": "menu",
//				"or": "Bye",
//				"tr": "Au revoir"
//			}
//		]
//	}
//
// Older files may also carry "needs translation" and "old translations"
// lists with the same record shape. All three are read; only the categories
// present in a File are written back.
package langfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Top-level keys and record fields.
const (
	KeyAuthors          = "authors"
	KeyTranslated       = "translated strings"
	KeyNeedsTranslation = "needs translation"
	KeyOldTranslations  = "old translations"

	fieldOr      = "or"
	fieldTr      = "tr"
	fieldContext = "context"
)

// Categories lists every entry category a file may carry.
var Categories = []string{KeyTranslated, KeyNeedsTranslation, KeyOldTranslations}

// ErrMissingAuthors is returned when a language file has no author list.
var ErrMissingAuthors = errors.New(`missing "authors" list`)

// Entry is a single translation record.
type Entry struct {
	Or  string
	Tr  string
	Ctx *string
}

// File is a parsed language file.
type File struct {
	// Authors is the author list as decoded JSON data. It is written back
	// exactly as read.
	Authors    any
	HasAuthors bool
	// Categories maps a category name to its records. Only categories
	// present in the source document (or set by the caller) are included.
	Categories map[string][]Entry
}

// New returns an empty file with the given author list.
func New(authors any) *File {
	return &File{
		Authors:    authors,
		HasAuthors: true,
		Categories: make(map[string][]Entry),
	}
}

// Entries returns the records of a category and whether it was present.
func (f *File) Entries(category string) ([]Entry, bool) {
	entries, ok := f.Categories[category]
	return entries, ok
}

// RequireAuthors returns ErrMissingAuthors when the file has no author list.
func (f *File) RequireAuthors() error {
	if !f.HasAuthors {
		return ErrMissingAuthors
	}
	return nil
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a language file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

type rawEntry struct {
	Or  *string `json:"or"`
	Tr  *string `json:"tr"`
	Ctx *string `json:"context"`
}

// Parse parses language file data. Raw control characters inside string
// values (tabs, typically) are accepted.
func Parse(data []byte) (*File, error) {
	var top map[string]json.RawMessage
	if err := decode(data, &top); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if top == nil {
		return nil, fmt.Errorf("parsing JSON: top level is not an object")
	}

	f := &File{Categories: make(map[string][]Entry)}

	if raw, ok := top[KeyAuthors]; ok {
		if err := decode(raw, &f.Authors); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", KeyAuthors, err)
		}
		f.HasAuthors = true
	}

	for _, cat := range Categories {
		raw, ok := top[cat]
		if !ok {
			continue
		}
		if string(bytes.TrimSpace(raw)) == "null" {
			return nil, fmt.Errorf("%q: expected a list, got null", cat)
		}
		var records []rawEntry
		if err := decode(raw, &records); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", cat, err)
		}

		entries := make([]Entry, 0, len(records))
		for i, r := range records {
			if r.Tr == nil {
				return nil, fmt.Errorf("%q #%d: missing %q", cat, i+1, fieldTr)
			}
			if r.Or == nil && *r.Tr != "" {
				return nil, fmt.Errorf("%q #%d: missing %q", cat, i+1, fieldOr)
			}
			e := Entry{Tr: *r.Tr, Ctx: r.Ctx}
			if r.Or != nil {
				e.Or = *r.Or
			}
			entries = append(entries, e)
		}
		f.Categories[cat] = entries
	}

	return f, nil
}

func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(escapeControlChars(data)))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

// escapeControlChars rewrites raw control characters found inside JSON
// string literals as escape sequences, so the strict encoding/json decoder
// accepts them. Bytes outside string literals are left untouched.
func escapeControlChars(data []byte) []byte {
	out := make([]byte, 0, len(data)+16)
	inString, escaped := false, false
	for _, c := range data {
		if !inString {
			if c == '"' {
				inString = true
			}
			out = append(out, c)
			continue
		}
		switch {
		case escaped:
			escaped = false
			out = append(out, c)
		case c == '\\':
			escaped = true
			out = append(out, c)
		case c == '"':
			inString = false
			out = append(out, c)
		case c < 0x20:
			out = appendControlEscape(out, rune(c))
		default:
			out = append(out, c)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// MarshalOptions controls the canonical output.
type MarshalOptions struct {
	// EscapeNonASCII writes every character outside printable ASCII as a
	// \uXXXX escape.
	EscapeNonASCII bool
}

// Marshal renders the file canonically: keys sorted, tab indentation,
// records as {"context"?, "or", "tr"}. There is no trailing newline.
func (f *File) Marshal(opts MarshalOptions) ([]byte, error) {
	doc := make(map[string]any, len(f.Categories)+1)
	if f.HasAuthors {
		doc[KeyAuthors] = f.Authors
	}
	for cat, entries := range f.Categories {
		list := make([]any, 0, len(entries))
		for _, e := range entries {
			rec := map[string]any{
				fieldOr: e.Or,
				fieldTr: e.Tr,
			}
			if e.Ctx != nil {
				rec[fieldContext] = *e.Ctx
			}
			list = append(list, rec)
		}
		doc[cat] = list
	}

	w := &writer{ascii: opts.EscapeNonASCII}
	if err := w.value(doc, 0); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// WriteFile writes the file atomically: the data goes to a temporary file in
// the same directory, which is then renamed over path.
func (f *File) WriteFile(path string, opts MarshalOptions) error {
	data, err := f.Marshal(opts)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return WriteAtomic(path, data)
}

// WriteAtomic replaces path with data, or leaves it untouched on failure.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Directory listing
// ---------------------------------------------------------------------------

// ListLanguageFiles returns the .json files in dir, sorted, without the
// index file.
func ListLanguageFiles(dir, indexName string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || name == indexName {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// LanguageCode returns the file name of path without the .json extension.
func LanguageCode(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}
