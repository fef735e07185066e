// Package merge reconciles the strings found in source with the previous
// state of a language file, the way msgmerge updates a PO file from a
// template.
//
//   - Every translatable key found in source appears exactly once, in scan
//     order, with the best translation on record or blank.
//   - Keys no longer found in source are dropped, or archived under
//     "old translations" when Options.ArchiveStale is set.
//   - The author list is carried over unchanged.
package merge

import (
	"github.com/teeworlds-community/l10nsync/extract"
	"github.com/teeworlds-community/l10nsync/langfile"
)

// OverlayOrder is the order in which the categories of the previous file
// are applied. Each pass overwrites earlier ones for the same key, so
// "translated strings" beats "needs translation", which beats
// "old translations". Blank translations never overwrite anything.
var OverlayOrder = []string{
	langfile.KeyOldTranslations,
	langfile.KeyNeedsTranslation,
	langfile.KeyTranslated,
}

// Options controls the merge.
type Options struct {
	// ArchiveStale writes translations of keys that are no longer in source
	// under "old translations" instead of dropping them.
	ArchiveStale bool
}

// Stats summarizes a merge.
type Stats struct {
	// Total is the number of entries written.
	Total int
	// Translated entries have a non-empty translation.
	Translated int
	// Untranslated entries are blank.
	Untranslated int
	// Recovered counts translations that came from "needs translation" or
	// "old translations" rather than "translated strings".
	Recovered int
	// Dropped counts translations lost because their key is no longer in
	// source.
	Dropped int
	// Archived counts stale translations kept under "old translations".
	Archived int
}

// Percent returns the translated share of Total, rounded down.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Translated * 100 / s.Total
}

// Result is the merged file plus what happened to it.
type Result struct {
	File  *langfile.File
	Stats Stats
	// Stale holds the translations whose key is no longer in source, in the
	// order they were found.
	Stale []langfile.Entry
}

// Merge builds the new content of a language file from the scanned keys and
// the file's previous content. It fails with langfile.ErrMissingAuthors when
// the previous content has no author list.
func Merge(keys *extract.KeySet, old *langfile.File, opts Options) (*Result, error) {
	if err := old.RequireAuthors(); err != nil {
		return nil, err
	}

	translations := make(map[extract.Key]string, keys.Len())
	origin := make(map[extract.Key]string, keys.Len())

	var staleOrder []extract.Key
	stale := make(map[extract.Key]langfile.Entry)

	for _, cat := range OverlayOrder {
		entries, ok := old.Entries(cat)
		if !ok {
			continue
		}
		for _, e := range entries {
			if e.Tr == "" {
				continue
			}
			key := extract.NewKey(e.Or, e.Ctx)
			if !keys.Has(key) {
				if key.Str == "" {
					continue
				}
				if _, seen := stale[key]; !seen {
					staleOrder = append(staleOrder, key)
				}
				stale[key] = langfile.Entry{Or: key.Str, Tr: e.Tr, Ctx: key.Context()}
				continue
			}
			translations[key] = e.Tr
			origin[key] = cat
		}
	}

	res := &Result{File: langfile.New(old.Authors)}

	entries := make([]langfile.Entry, 0, keys.Len())
	for _, key := range keys.Keys() {
		if key.Str == "" {
			continue
		}
		tr := translations[key]
		entries = append(entries, langfile.Entry{Or: key.Str, Tr: tr, Ctx: key.Context()})

		if tr != "" {
			res.Stats.Translated++
			if origin[key] != langfile.KeyTranslated {
				res.Stats.Recovered++
			}
		} else {
			res.Stats.Untranslated++
		}
	}
	res.File.Categories[langfile.KeyTranslated] = entries
	res.Stats.Total = len(entries)

	for _, key := range staleOrder {
		res.Stale = append(res.Stale, stale[key])
	}
	res.Stats.Dropped = len(res.Stale)

	if opts.ArchiveStale && len(res.Stale) > 0 {
		res.File.Categories[langfile.KeyOldTranslations] = res.Stale
		res.Stats.Archived = len(res.Stale)
		res.Stats.Dropped = 0
	}

	return res, nil
}
