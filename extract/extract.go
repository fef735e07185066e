// Package extract scans a C/C++ source tree for calls to the localization
// macro and collects every distinct (string, context) pair:
//
//	Localize("Hello")
//	Localize("Bye", "menu")
//
// Files are read as raw bytes, line by line, and only the matched string
// literals are decoded, so source files in mixed or legacy encodings do not
// break a run.
package extract

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// localizeRe matches Localize("<str>") and Localize("<str>", "<ctxt>").
// Escaped quotes and backslashes are allowed inside both literals.
var localizeRe = regexp.MustCompile(`Localize\("((?:[^"\\]|\\.)*)"(?:, ?"((?:[^"\\]|\\.)*)")?\)`)

// Options controls which files are scanned and how matches are decoded.
type Options struct {
	// Extensions lists the file extensions to scan (with leading dot).
	Extensions []string
	// SkipSegment is a directory name whose subtree is never scanned
	// (vendored code).
	SkipSegment string
	// Decoder turns matched bytes into text. Nil means strict UTF-8.
	Decoder *Decoder
}

// Result holds the outcome of a scan.
type Result struct {
	// Keys is the set of distinct keys found, in first-occurrence order.
	Keys *KeySet
	// SourceFiles is the list of files scanned.
	SourceFiles []string
}

// FindSources walks root in lexical order and returns the files whose
// extension is in opts.Extensions. Directories named opts.SkipSegment below
// root are pruned. Walk errors are returned, not skipped.
func FindSources(root string, opts Options) ([]string, error) {
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[e] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && opts.SkipSegment != "" && d.Name() == opts.SkipSegment {
				return filepath.SkipDir
			}
			return nil
		}
		if exts[filepath.Ext(path)] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return files, nil
}

// Scan finds the source files under root and collects every localization
// key they reference.
func Scan(root string, opts Options) (*Result, error) {
	files, err := FindSources(root, opts)
	if err != nil {
		return nil, err
	}

	keys := NewKeySet()
	for _, f := range files {
		if err := ScanFile(f, keys, opts.Decoder); err != nil {
			return nil, err
		}
	}

	return &Result{Keys: keys, SourceFiles: files}, nil
}

// ScanFile adds the keys referenced in a single file to keys.
func ScanFile(path string, keys *KeySet, dec *Decoder) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ScanReader(f, path, keys, dec)
}

// ScanReader is ScanFile over an arbitrary reader; name is used for
// locations and error messages.
func ScanReader(r io.Reader, name string, keys *KeySet, dec *Decoder) error {
	br := bufio.NewReader(r)
	for lineno := 1; ; lineno++ {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if perr := scanLine(line, Location{File: name, Line: lineno}, keys, dec); perr != nil {
				return perr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
	}
}

func scanLine(line []byte, loc Location, keys *KeySet, dec *Decoder) error {
	if !bytes.Contains(line, []byte("Localize(")) {
		return nil
	}

	for _, m := range localizeRe.FindAllSubmatchIndex(line, -1) {
		str, err := dec.Decode(line[m[2]:m[3]])
		if err != nil {
			return fmt.Errorf("%s: %w", loc, err)
		}

		key := Key{Str: str}
		if m[4] >= 0 {
			ctx, err := dec.Decode(line[m[4]:m[5]])
			if err != nil {
				return fmt.Errorf("%s: %w", loc, err)
			}
			key.Ctx = ctx
			key.HasCtx = true
		}
		keys.Add(key, loc)
	}
	return nil
}

// DescribeFiles returns a human-readable summary of the files found,
// grouped by extension.
func DescribeFiles(files []string) string {
	byExt := make(map[string]int)
	for _, f := range files {
		byExt[filepath.Ext(f)]++
	}

	exts := make([]string, 0, len(byExt))
	for ext := range byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	parts := make([]string, 0, len(exts))
	for _, ext := range exts {
		parts = append(parts, fmt.Sprintf("%d %s", byExt[ext], ext))
	}
	return strings.Join(parts, ", ")
}
